package loadable

import (
	"sync"
)

// Status represents the current state of an imperative loadable wrapper.
type Status int

const (
	StatusIdle    Status = iota // No fetch started yet
	StatusLoading               // Fetch in progress
	StatusSuccess               // Data successfully loaded
	StatusError                 // Fetch failed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the imperative, single-owner counterpart of Loadable: a mutable
// status/data/error cell driven by explicit transitions rather than a
// stream. It is not itself reactive.
type State[T any] struct {
	mu     sync.Mutex
	status Status
	data   T
	err    error
}

// NewState creates a state in StatusIdle with zero data and no error.
func NewState[T any]() *State[T] {
	return &State[T]{}
}

// Loading marks a fetch as in progress. Data is retained; the error is
// cleared.
func (s *State[T]) Loading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.err = nil
}

// Success records freshly loaded data and clears any error.
func (s *State[T]) Success(data T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusSuccess
	s.data = data
	s.err = nil
}

// Fail records a fetch failure. Data is retained.
func (s *State[T]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusError
	s.err = err
}

// Reset returns the state to StatusIdle with zero data and no error.
func (s *State[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.status = StatusIdle
	s.data = zero
	s.err = nil
}

// Status returns the current status.
func (s *State[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Data returns the current data (the zero value before the first Success).
func (s *State[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// DataOr returns the current data if a Success has been recorded, and
// fallback otherwise.
func (s *State[T]) DataOr(fallback T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusSuccess {
		return s.data
	}
	return fallback
}

// Err returns the recorded error, or nil.
func (s *State[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *State[T]) IsIdle() bool    { return s.Status() == StatusIdle }
func (s *State[T]) IsLoading() bool { return s.Status() == StatusLoading }
func (s *State[T]) IsSuccess() bool { return s.Status() == StatusSuccess }
func (s *State[T]) IsError() bool   { return s.Status() == StatusError }

// Snapshot converts the current state into a Loadable value.
func (s *State[T]) Snapshot() Loadable[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Loadable[T]{
		Loading: s.status == StatusLoading,
		Data:    s.data,
		Err:     s.err,
	}
}
