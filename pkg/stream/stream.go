package stream

import (
	"sync"
)

// Subscriber receives stream notifications. All callbacks are optional;
// a nil callback simply drops that notification.
type Subscriber[T any] struct {
	// Next is called for each value the stream emits.
	Next func(T)

	// Error is called at most once, when the stream fails.
	// No further notifications follow.
	Error func(error)

	// Complete is called at most once, when the stream ends normally.
	// No further notifications follow.
	Complete func()
}

// Stream is a push-based source of values. Subscribing starts delivery and
// returns a handle that cancels it.
type Stream[T any] interface {
	Subscribe(sub Subscriber[T]) *Subscription
}

// Subscription is a cancellable handle to an active subscription.
type Subscription struct {
	mu        sync.Mutex
	closed    bool
	done      chan struct{}
	teardowns []func()
}

// NewSubscription creates an open subscription with no teardowns.
func NewSubscription() *Subscription {
	return &Subscription{done: make(chan struct{})}
}

// Unsubscribe cancels the subscription and runs registered teardowns in
// registration order. It is idempotent and safe for concurrent use.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	// Run teardowns outside the lock so they may touch other subscriptions.
	for _, fn := range teardowns {
		fn()
	}
}

// Closed reports whether the subscription has been cancelled.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Done returns a channel that is closed when the subscription is cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// OnUnsubscribe registers a teardown to run when the subscription is
// cancelled. If the subscription is already closed, fn runs immediately.
func (s *Subscription) OnUnsubscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.teardowns = append(s.teardowns, fn)
	s.mu.Unlock()
}

// Sink is the producer-facing side of a subscription. It serializes
// delivery, enforces the terminal-state contract (nothing after
// Error/Complete), and suppresses emissions once the subscriber has
// unsubscribed.
type Sink[T any] struct {
	mu   sync.Mutex
	dest Subscriber[T]
	sub  *Subscription
	done bool
}

func newSink[T any](dest Subscriber[T], sub *Subscription) *Sink[T] {
	return &Sink[T]{dest: dest, sub: sub}
}

// Next delivers a value to the subscriber unless the sink is terminated
// or the subscription cancelled.
func (s *Sink[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.sub.Closed() {
		return
	}
	if s.dest.Next != nil {
		s.dest.Next(v)
	}
}

// Error terminates the sink with a failure. The subscription is released
// afterwards so producer resources are torn down.
func (s *Sink[T]) Error(err error) {
	s.mu.Lock()
	if s.done || s.sub.Closed() {
		s.mu.Unlock()
		return
	}
	s.done = true
	if s.dest.Error != nil {
		s.dest.Error(err)
	}
	s.mu.Unlock()
	s.sub.Unsubscribe()
}

// Complete terminates the sink normally and releases the subscription.
func (s *Sink[T]) Complete() {
	s.mu.Lock()
	if s.done || s.sub.Closed() {
		s.mu.Unlock()
		return
	}
	s.done = true
	if s.dest.Complete != nil {
		s.dest.Complete()
	}
	s.mu.Unlock()
	s.sub.Unsubscribe()
}

// Canceled reports whether the sink can no longer deliver, either because a
// terminal notification was sent or the subscriber unsubscribed.
func (s *Sink[T]) Canceled() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	return done || s.sub.Closed()
}

// OnCleanup registers a teardown tied to the subscription lifetime.
func (s *Sink[T]) OnCleanup(fn func()) {
	s.sub.OnUnsubscribe(fn)
}

// Subscription returns the subscription backing this sink.
func (s *Sink[T]) Subscription() *Subscription {
	return s.sub
}

// forward returns a Subscriber that relays all notifications into the sink.
func (s *Sink[T]) forward() Subscriber[T] {
	return Subscriber[T]{Next: s.Next, Error: s.Error, Complete: s.Complete}
}

// streamFunc adapts a producer function into a Stream.
type streamFunc[T any] struct {
	producer func(*Sink[T])
}

func (s streamFunc[T]) Subscribe(dest Subscriber[T]) *Subscription {
	sub := NewSubscription()
	sink := newSink(dest, sub)
	s.producer(sink)
	return sub
}

// New creates a cold stream from a producer function. The producer runs
// synchronously on every Subscribe and may spawn goroutines; it should
// register teardowns for them via Sink.OnCleanup.
func New[T any](producer func(*Sink[T])) Stream[T] {
	return streamFunc[T]{producer: producer}
}
