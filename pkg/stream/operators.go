package stream

import (
	"sync"
)

// Map transforms each value of src with fn. Errors and completion pass
// through unchanged.
func Map[T, U any](src Stream[T], fn func(T) U) Stream[U] {
	return New(func(sink *Sink[U]) {
		inner := src.Subscribe(Subscriber[T]{
			Next:     func(v T) { sink.Next(fn(v)) },
			Error:    sink.Error,
			Complete: sink.Complete,
		})
		sink.OnCleanup(inner.Unsubscribe)
	})
}

// Filter forwards only the values of src for which pred returns true.
func Filter[T any](src Stream[T], pred func(T) bool) Stream[T] {
	return New(func(sink *Sink[T]) {
		inner := src.Subscribe(Subscriber[T]{
			Next: func(v T) {
				if pred(v) {
					sink.Next(v)
				}
			},
			Error:    sink.Error,
			Complete: sink.Complete,
		})
		sink.OnCleanup(inner.Unsubscribe)
	})
}

// Scan reduces src left-to-right from seed, emitting every intermediate
// accumulator value. The seed itself is not emitted.
func Scan[T, A any](src Stream[T], seed A, fn func(A, T) A) Stream[A] {
	return New(func(sink *Sink[A]) {
		acc := seed
		inner := src.Subscribe(Subscriber[T]{
			Next: func(v T) {
				// Upstream delivery is serialized per subscription, so the
				// accumulator needs no extra locking.
				acc = fn(acc, v)
				sink.Next(acc)
			},
			Error:    sink.Error,
			Complete: sink.Complete,
		})
		sink.OnCleanup(inner.Unsubscribe)
	})
}

// StartWith emits the given values before subscribing to src.
func StartWith[T any](src Stream[T], values ...T) Stream[T] {
	return New(func(sink *Sink[T]) {
		for _, v := range values {
			if sink.Canceled() {
				return
			}
			sink.Next(v)
		}
		inner := src.Subscribe(sink.forward())
		sink.OnCleanup(inner.Unsubscribe)
	})
}

// Merge interleaves the values of all sources into one stream. Sources are
// subscribed in argument order. The merged stream completes when every
// source has completed and fails as soon as any source fails.
func Merge[T any](sources ...Stream[T]) Stream[T] {
	return New(func(sink *Sink[T]) {
		if len(sources) == 0 {
			sink.Complete()
			return
		}

		var mu sync.Mutex
		remaining := len(sources)

		for _, src := range sources {
			inner := src.Subscribe(Subscriber[T]{
				Next:  sink.Next,
				Error: sink.Error,
				Complete: func() {
					mu.Lock()
					remaining--
					last := remaining == 0
					mu.Unlock()
					if last {
						sink.Complete()
					}
				},
			})
			sink.OnCleanup(inner.Unsubscribe)
			if sink.Canceled() {
				return
			}
		}
	})
}

// Catch intercepts a failure of src and continues with the stream returned
// by handler. Values and completion pass through unchanged; src never
// terminates the downstream subscription with an error.
func Catch[T any](src Stream[T], handler func(error) Stream[T]) Stream[T] {
	return New(func(sink *Sink[T]) {
		inner := src.Subscribe(Subscriber[T]{
			Next: sink.Next,
			Error: func(err error) {
				replacement := handler(err).Subscribe(sink.forward())
				sink.OnCleanup(replacement.Unsubscribe)
			},
			Complete: sink.Complete,
		})
		sink.OnCleanup(inner.Unsubscribe)
	})
}
