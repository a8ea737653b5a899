package cache

import (
	"math"
	"sync"
	"time"

	"bolao/internal/models"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL      = 15 * time.Minute
	limiterCleanupEvery = 2 * time.Minute
)

type lockEntry struct {
	owner     string
	expiresAt time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryCache keeps everything in process. It is the default for a single
// instance deployment.
type MemoryCache struct {
	mu          sync.Mutex
	snapshot    *models.CachedSnapshot
	locks       map[string]lockEntry
	limiters    map[string]*limiterEntry
	lastCleanup time.Time
	now         func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		locks:    make(map[string]lockEntry),
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

func (c *MemoryCache) GetSnapshot() (models.CachedSnapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return models.CachedSnapshot{}, false, nil
	}
	return *c.snapshot, true, nil
}

func (c *MemoryCache) SetSnapshot(snapshot models.CachedSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = &snapshot
	return nil
}

func (c *MemoryCache) TryAcquireLock(key string, instanceID string, ttlSeconds int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.locks[key]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}

	c.locks[key] = lockEntry{
		owner:     instanceID,
		expiresAt: now.Add(time.Duration(ttlSeconds) * time.Second),
	}
	return true, nil
}

func (c *MemoryCache) ReleaseLock(key string, instanceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.locks[key]; ok && entry.owner == instanceID {
		delete(c.locks, key)
	}
	return nil
}

// GetRateLimit uses a token bucket per identifier refilled at
// requestsPerMinute/60 tokens per second with a burst of requestsPerMinute.
func (c *MemoryCache) GetRateLimit(userIdentifier string, requestsPerMinute int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cleanupLimiters(now)

	entry, ok := c.limiters[userIdentifier]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), requestsPerMinute),
		}
		c.limiters[userIdentifier] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return 0, nil
	}

	reservation := entry.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return max(1, int(math.Ceil(delay.Seconds()))), nil
}

func (c *MemoryCache) cleanupLimiters(now time.Time) {
	if now.Sub(c.lastCleanup) < limiterCleanupEvery {
		return
	}
	c.lastCleanup = now

	cutoff := now.Add(-limiterIdleTTL)
	for key, entry := range c.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(c.limiters, key)
		}
	}
}

func (c *MemoryCache) Close() error {
	return nil
}
