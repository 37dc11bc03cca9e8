package stream

import (
	"sync"
	"sync/atomic"
)

var subjectIDCounter uint64

func nextSubjectID() uint64 {
	return atomic.AddUint64(&subjectIDCounter, 1)
}

type subjectEntry[T any] struct {
	id   uint64
	sink *Sink[T]
}

// Subject is a hot stream: values pushed with Next are multicast to every
// current subscriber in subscription order. Subscribers that arrive after a
// value was pushed do not receive it.
type Subject[T any] struct {
	// emitMu serializes emissions so every subscriber observes the same
	// total order of notifications.
	emitMu sync.Mutex

	// mu guards the subscriber list and terminal state.
	mu      sync.Mutex
	entries []subjectEntry[T]
	done    bool
	failed  bool
	err     error
}

// NewSubject creates an empty hot subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe registers a subscriber. If the subject already terminated, the
// terminal notification is delivered immediately.
func (s *Subject[T]) Subscribe(dest Subscriber[T]) *Subscription {
	sub := NewSubscription()
	sink := newSink(dest, sub)

	s.mu.Lock()
	if s.done {
		failed, err := s.failed, s.err
		s.mu.Unlock()
		if failed {
			sink.Error(err)
		} else {
			sink.Complete()
		}
		return sub
	}
	id := nextSubjectID()
	s.entries = append(s.entries, subjectEntry[T]{id: id, sink: sink})
	s.mu.Unlock()

	sub.OnUnsubscribe(func() { s.remove(id) })
	return sub
}

// Next multicasts a value to all current subscribers.
func (s *Subject[T]) Next(v T) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	for _, e := range s.snapshot() {
		e.sink.Next(v)
	}
}

// Error terminates the subject with a failure. Subsequent subscribers
// receive the same error immediately.
func (s *Subject[T]) Error(err error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	entries, ok := s.terminate(true, err)
	if !ok {
		return
	}
	for _, e := range entries {
		e.sink.Error(err)
	}
}

// Complete terminates the subject normally.
func (s *Subject[T]) Complete() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	entries, ok := s.terminate(false, nil)
	if !ok {
		return
	}
	for _, e := range entries {
		e.sink.Complete()
	}
}

// snapshot copies the subscriber list so notification happens without
// holding the list lock.
func (s *Subject[T]) snapshot() []subjectEntry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	entries := make([]subjectEntry[T], len(s.entries))
	copy(entries, s.entries)
	return entries
}

// terminate marks the subject done and detaches all subscribers.
// Returns false if the subject already terminated.
func (s *Subject[T]) terminate(failed bool, err error) ([]subjectEntry[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, false
	}
	s.done = true
	s.failed = failed
	s.err = err
	entries := s.entries
	s.entries = nil
	return entries, true
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// BehaviorSubject is a Subject that remembers the most recent value and
// replays it to every new subscriber before forwarding live values.
type BehaviorSubject[T any] struct {
	subject *Subject[T]

	mu    sync.Mutex
	value T
}

// NewBehaviorSubject creates a behavior subject seeded with initial.
func NewBehaviorSubject[T any](initial T) *BehaviorSubject[T] {
	return &BehaviorSubject[T]{subject: NewSubject[T](), value: initial}
}

// Subscribe delivers the current value immediately, then live values.
// The replay is serialized against Next so no subscriber can observe values
// out of order.
func (s *BehaviorSubject[T]) Subscribe(dest Subscriber[T]) *Subscription {
	s.subject.emitMu.Lock()
	defer s.subject.emitMu.Unlock()

	sub := s.subject.Subscribe(dest)

	s.subject.mu.Lock()
	terminated := s.subject.done
	s.subject.mu.Unlock()
	if terminated {
		return sub
	}

	s.mu.Lock()
	current := s.value
	s.mu.Unlock()

	// Deliver the replayed value through the sink registered by Subscribe.
	// Finding it by scanning is fine: subscriber lists are short.
	for _, e := range s.subject.snapshot() {
		if e.sink.sub == sub {
			e.sink.Next(current)
			break
		}
	}
	return sub
}

// Value returns the most recent value without subscribing.
func (s *BehaviorSubject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next stores v as the current value and multicasts it.
func (s *BehaviorSubject[T]) Next(v T) {
	s.subject.emitMu.Lock()
	defer s.subject.emitMu.Unlock()

	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	for _, e := range s.subject.snapshot() {
		e.sink.Next(v)
	}
}

// Error terminates the subject with a failure.
func (s *BehaviorSubject[T]) Error(err error) {
	s.subject.Error(err)
}

// Complete terminates the subject normally.
func (s *BehaviorSubject[T]) Complete() {
	s.subject.Complete()
}
