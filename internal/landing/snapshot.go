package landing

import (
	"context"
	"time"

	c "bolao/internal/cache"
	"bolao/internal/configuration"
	"bolao/internal/models"

	"go.uber.org/zap"
)

// Snapshotter produces a fresh CounterSnapshot from the backend.
type Snapshotter interface {
	Snapshot(ctx context.Context) models.CounterSnapshot
}

// SnapshotStore serves the page-generation counters. A generated snapshot is
// reused until the revalidation window elapses; the first request after that
// regenerates it. Only the instance holding the regeneration lock contacts
// the backend, the others keep serving the previous snapshot.
type SnapshotStore struct {
	cache      c.ICache
	counters   Snapshotter
	revalidate time.Duration
	instanceID string
	now        func() time.Time
}

func NewSnapshotStore(
	cache c.ICache,
	counters Snapshotter,
	revalidate time.Duration,
	instanceID string,
) *SnapshotStore {
	return &SnapshotStore{
		cache:      cache,
		counters:   counters,
		revalidate: revalidate,
		instanceID: instanceID,
		now:        time.Now,
	}
}

func (s *SnapshotStore) Load(ctx context.Context) models.CounterSnapshot {
	cached, found, err := s.cache.GetSnapshot()
	if err != nil {
		zap.L().Error("Failed to read cached snapshot, fetching counters directly", zap.Error(err))
		return s.counters.Snapshot(ctx)
	}

	if found && cached.IsFresh(s.now(), s.revalidate) {
		return cached.Snapshot
	}

	acquired, err := s.cache.TryAcquireLock(configuration.CacheSnapshotLockKey, s.instanceID, configuration.CacheSnapshotLockTTL)
	if err != nil {
		zap.L().Error("Failed to acquire snapshot lock", zap.Error(err))
	}

	if !acquired && found {
		return cached.Snapshot
	}

	if acquired {
		defer func() {
			if releaseErr := s.cache.ReleaseLock(configuration.CacheSnapshotLockKey, s.instanceID); releaseErr != nil {
				zap.L().Warn("Failed to release snapshot lock", zap.Error(releaseErr))
			}
		}()
	}

	snapshot := s.counters.Snapshot(ctx)

	err = s.cache.SetSnapshot(models.CachedSnapshot{Snapshot: snapshot, GeneratedAt: s.now()})
	if err != nil {
		zap.L().Error("Failed to store snapshot", zap.Error(err))
	}

	zap.L().Info("Regenerated landing counters",
		zap.Int64("users", snapshot.Users),
		zap.Int64("pools", snapshot.Pools),
		zap.Int64("guesses", snapshot.Guesses))

	return snapshot
}
