package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"bolao/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

func parseArrayFields(k *koanf.Koanf) {
	for _, field := range ArrayConfigFields {
		if stringVal := k.String(field); stringVal != "" {
			stringVal = strings.Trim(stringVal, "[]")
			var items []string
			if strings.Contains(stringVal, ",") {
				items = strings.Split(stringVal, ",")
			} else {
				items = strings.Fields(stringVal)
			}
			for i, item := range items {
				items[i] = strings.TrimSpace(item)
			}
			err := k.Set(field, items)
			if err != nil {
				zap.L().
					Error("Error parsing array field", zap.String("field", field), zap.Error(err))
			}
		}
	}
}

// loadDotEnv exports the variables of a local .env file, if any, so they are
// picked up by readEnvVars like any other environment variable.
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("Error loading .env file", zap.Error(err))
	}
}

func readEnvVars(k *koanf.Koanf) {
	err := k.Load(env.Provider("", ".", func(s string) string {
		s = strings.ToLower(s)
		segments := strings.Split(s, "__")
		result := strings.Join(segments, ".")
		return result
	}), nil)
	if err != nil {
		zap.L().Warn("Error loading environment variables", zap.Error(err))
	}

	parseArrayFields(k)
}

func readFileConfig(k *koanf.Koanf) error {
	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	var filePath string
	if configFilePath == "" {
		for _, path := range ConfigFileSearchPaths {
			if _, err := os.Stat(path); err == nil {
				filePath = path
				break
			}
		}
	} else {
		filePath = configFilePath
	}

	if filePath == "" {
		zap.L().Info("No configuration file found, using defaults and environment")
		return nil
	}

	if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", filePath, err)
	}
	zap.L().Info("Read configuration from file " + filePath)
	return nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]interface{}{
		"app.log_level":           "info",
		"app.port":                8080,
		"app.allowed_origins":     []string{"*"},
		"app.trusted_proxies":     []string{},
		"app.revalidate_seconds":  DefaultRevalidateSeconds,
		"app.form_rate_limit":     30,
		"app.counters_rate_limit": 60,

		"backend.base_url":        DefaultBackendBaseURL,
		"backend.timeout_seconds": 10,

		"cache.type": CacheMemory,

		"tracing.enabled":      false,
		"tracing.service_name": AppName,

		"profiling.enabled":          false,
		"profiling.application_name": AppName,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

func setIfMissing(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		_ = k.Set(key, value)
	}
}

func loadConditionalDefaults(k *koanf.Koanf) {
	switch k.String("cache.type") {
	case CacheRedis:
		setIfMissing(k, "cache.redis.hosts", []string{"localhost:6379"})
	case CacheValkey:
		setIfMissing(k, "cache.valkey.hosts", []string{"localhost:6379"})
	}
}

// Load builds the configuration from defaults, the optional YAML file and the
// environment, in that order of precedence, and validates the result.
func Load() (models.Configuration, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return models.Configuration{}, fmt.Errorf("failed to load default configuration: %w", err)
	}
	if err := readFileConfig(k); err != nil {
		return models.Configuration{}, err
	}
	loadDotEnv()
	readEnvVars(k)
	loadConditionalDefaults(k)

	var config models.Configuration
	err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "mapstructure"})
	if err != nil {
		return models.Configuration{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	validate := validator.New()
	if err = validate.Struct(config); err != nil {
		return models.Configuration{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func Read() models.Configuration {
	config, err := Load()
	if err != nil {
		zap.L().Fatal("Failed to read configuration", zap.Error(err))
	}
	return config
}
