package stream

import (
	"context"
)

// Of emits the given values in order, then completes.
func Of[T any](values ...T) Stream[T] {
	return New(func(sink *Sink[T]) {
		for _, v := range values {
			if sink.Canceled() {
				return
			}
			sink.Next(v)
		}
		sink.Complete()
	})
}

// Never emits nothing and never terminates.
func Never[T any]() Stream[T] {
	return New(func(*Sink[T]) {})
}

// Fail immediately terminates with err.
func Fail[T any](err error) Stream[T] {
	return New(func(sink *Sink[T]) {
		sink.Error(err)
	})
}

// Defer calls factory on every subscription and subscribes to the stream it
// returns, so each subscriber gets a fresh run.
func Defer[T any](factory func() Stream[T]) Stream[T] {
	return New(func(sink *Sink[T]) {
		inner := factory().Subscribe(sink.forward())
		sink.OnCleanup(inner.Unsubscribe)
	})
}

// FromFunc adapts a context-aware function into a single-value stream.
// The function runs in its own goroutine; its context is cancelled when the
// subscriber unsubscribes, and a cancelled run delivers nothing.
//
// This is the bridge between ordinary Go fetch functions and streams:
//
//	users := stream.FromFunc(func(ctx context.Context) ([]User, error) {
//	    return api.SearchUsers(ctx, query)
//	})
func FromFunc[T any](fn func(ctx context.Context) (T, error)) Stream[T] {
	return New(func(sink *Sink[T]) {
		ctx, cancel := context.WithCancel(context.Background())
		sink.OnCleanup(cancel)

		go func() {
			v, err := fn(ctx)
			if ctx.Err() != nil {
				// Cancelled runs must not invoke result callbacks.
				return
			}
			if err != nil {
				sink.Error(err)
				return
			}
			sink.Next(v)
			sink.Complete()
		}()
	})
}

// FromChannel emits every value received on ch and completes when ch is
// closed. Unsubscribing stops the forwarding goroutine without draining ch.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return New(func(sink *Sink[T]) {
		go func() {
			for {
				select {
				case v, ok := <-ch:
					if !ok {
						sink.Complete()
						return
					}
					sink.Next(v)
				case <-sink.Subscription().Done():
					return
				}
			}
		}()
	})
}
