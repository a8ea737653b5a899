package landing

import (
	"sync"

	"bolao/internal/models"
)

// CounterState is the page's counter container. Update is its only writer;
// concurrent refreshes are not coalesced, the last Update wins.
type CounterState struct {
	mu       sync.RWMutex
	snapshot models.CounterSnapshot
}

func NewCounterState(initial models.CounterSnapshot) *CounterState {
	return &CounterState{snapshot: initial}
}

func (s *CounterState) Update(snapshot models.CounterSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

func (s *CounterState) Current() models.CounterSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

type FormStatus int

const (
	FormIdle FormStatus = iota
	FormSubmitting
)

func (s FormStatus) String() string {
	switch s {
	case FormSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Form is the pool creation form: the title input and the submission status.
type Form struct {
	mu     sync.Mutex
	value  string
	status FormStatus
}

func (f *Form) SetValue(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
}

func (f *Form) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *Form) Clear() {
	f.SetValue("")
}

func (f *Form) Status() FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// begin moves Idle to Submitting. It returns false if a submission is already
// in flight.
func (f *Form) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == FormSubmitting {
		return false
	}
	f.status = FormSubmitting
	return true
}

func (f *Form) end() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = FormIdle
}
