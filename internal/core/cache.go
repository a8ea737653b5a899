package core

import (
	c "bolao/internal/cache"
	"bolao/internal/configuration"
	"bolao/internal/models"

	"go.uber.org/zap"
)

func NewCache(config models.CacheConfiguration) c.ICache {
	var cache c.ICache
	var err error

	switch config.Type {
	case configuration.CacheRedis:
		cache, err = c.NewRedisCache(*config.Redis)
	case configuration.CacheValkey:
		cache, err = c.NewValkeyCache(*config.Valkey)
	default:
		cache = c.NewMemoryCache()
	}

	if err != nil {
		zap.L().Fatal("Failed to connect to cache", zap.String("type", config.Type), zap.Error(err))
	}

	zap.L().Info("Cache initialized", zap.String("type", config.Type))
	return cache
}
