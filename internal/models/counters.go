package models

import "time"

// CounterSnapshot holds the three aggregate counters shown on the landing page.
// A counter whose source could not be read is always 0.
type CounterSnapshot struct {
	Users   int64 `json:"users"`
	Pools   int64 `json:"pools"`
	Guesses int64 `json:"guesses"`
}

// CachedSnapshot is a CounterSnapshot stamped with the time it was generated.
type CachedSnapshot struct {
	Snapshot    CounterSnapshot `json:"snapshot"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// IsFresh reports whether the snapshot is still inside its revalidation window.
func (c CachedSnapshot) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(c.GeneratedAt) < window
}

type PoolCreationRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type PoolCreationResult struct {
	Code string `json:"code"`
}
