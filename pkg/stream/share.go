package stream

import (
	"sync"
)

// ShareReplay multicasts src through a single shared subscription with a
// replay buffer of the most recent value. The upstream subscription is
// created when the first subscriber arrives and torn down when the last
// subscriber leaves; after a full drop the buffer is discarded, so a later
// first subscriber restarts src from scratch.
func ShareReplay[T any](src Stream[T]) Stream[T] {
	s := &sharedStream[T]{src: src}
	return s
}

type sharedStream[T any] struct {
	src Stream[T]

	mu       sync.Mutex
	refCount int
	subject  *Subject[T]
	srcSub   *Subscription
	hasValue bool
	value    T
}

func (s *sharedStream[T]) Subscribe(dest Subscriber[T]) *Subscription {
	s.mu.Lock()
	s.refCount++
	first := s.refCount == 1
	if first {
		s.subject = NewSubject[T]()
	}
	subject := s.subject
	s.mu.Unlock()

	// Serialize the replay against live emissions so the new subscriber
	// cannot observe a newer value before the buffered one, and read the
	// buffer only after registering so no emission lands in between.
	subject.emitMu.Lock()
	sub := subject.Subscribe(dest)
	s.mu.Lock()
	hasValue, value := s.hasValue, s.value
	s.mu.Unlock()
	if hasValue {
		for _, e := range subject.snapshot() {
			if e.sink.sub == sub {
				e.sink.Next(value)
				break
			}
		}
	}
	subject.emitMu.Unlock()

	if first {
		s.connect(subject)
	}

	sub.OnUnsubscribe(func() { s.release(subject) })
	return sub
}

// connect subscribes the shared upstream and mirrors its notifications into
// the subject, recording the latest value for replay.
func (s *sharedStream[T]) connect(subject *Subject[T]) {
	srcSub := s.src.Subscribe(Subscriber[T]{
		Next: func(v T) {
			// Buffer update and multicast happen atomically with respect
			// to replays in Subscribe, so a late subscriber sees either
			// buffered-then-live or live alone, never a duplicate.
			subject.emitMu.Lock()
			defer subject.emitMu.Unlock()

			s.mu.Lock()
			if s.subject != subject {
				s.mu.Unlock()
				return
			}
			s.hasValue = true
			s.value = v
			s.mu.Unlock()

			for _, e := range subject.snapshot() {
				e.sink.Next(v)
			}
		},
		Error:    subject.Error,
		Complete: subject.Complete,
	})

	s.mu.Lock()
	if s.subject == subject && s.refCount > 0 {
		s.srcSub = srcSub
		s.mu.Unlock()
		return
	}
	// Everyone left while we were connecting.
	s.mu.Unlock()
	srcSub.Unsubscribe()
}

// release drops one subscriber; the last one out disconnects the upstream
// and clears the replay buffer.
func (s *sharedStream[T]) release(subject *Subject[T]) {
	s.mu.Lock()
	if s.subject != subject {
		// A newer generation is running; this release belongs to a
		// subscriber of a generation that was already reset.
		s.mu.Unlock()
		return
	}
	s.refCount--
	if s.refCount > 0 {
		s.mu.Unlock()
		return
	}
	srcSub := s.srcSub
	s.srcSub = nil
	s.subject = nil
	s.hasValue = false
	var zero T
	s.value = zero
	s.mu.Unlock()

	if srcSub != nil {
		srcSub.Unsubscribe()
	}
}
