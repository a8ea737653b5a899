package cache

import "bolao/internal/models"

type ICache interface {
	// GetSnapshot returns the last generated counter snapshot, if any.
	// A missing snapshot is reported with found=false and a nil error.
	GetSnapshot() (snapshot models.CachedSnapshot, found bool, err error)
	SetSnapshot(snapshot models.CachedSnapshot) error

	// TryAcquireLock takes key for instanceID for ttlSeconds.
	// Returns false if the lock is held by another instance.
	TryAcquireLock(key string, instanceID string, ttlSeconds int) (bool, error)
	// ReleaseLock drops key only if it is still held by instanceID.
	ReleaseLock(key string, instanceID string) error

	// GetRateLimit counts one request for userIdentifier and returns the number
	// of seconds to wait when the per-minute budget is exhausted, 0 otherwise.
	GetRateLimit(userIdentifier string, requestsPerMinute int) (int, error)

	Close() error
}
