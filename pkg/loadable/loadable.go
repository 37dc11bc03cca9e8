package loadable

import (
	"github.com/dangmixx/loadable/pkg/stream"
)

// Loadable is an immutable snapshot of one asynchronous fetch. Data always
// holds a valid T: the caller-supplied initial value before the first
// success and the last known good value afterwards, even through loading
// and error states.
type Loadable[T any] struct {
	Loading bool
	Data    T
	Err     error
}

// WithLoading wraps a one-off source into a loading/success/error stream.
//
// Every subscription starts fresh with {Loading: true, Data: initial}; each
// source value becomes a success snapshot; a source failure becomes a final
// error snapshot after which the stream ends. Nothing is remembered across
// subscriptions.
func WithLoading[T any](source stream.Stream[T], initial T) stream.Stream[Loadable[T]] {
	return stream.New(func(sink *stream.Sink[Loadable[T]]) {
		sink.Next(Loadable[T]{Loading: true, Data: initial})

		inner := source.Subscribe(stream.Subscriber[T]{
			Next: func(v T) {
				sink.Next(Loadable[T]{Data: v})
			},
			Error: func(err error) {
				// The error is state, not stream failure. The run is over,
				// though: retrying means resubscribing.
				sink.Next(Loadable[T]{Data: initial, Err: err})
				sink.Complete()
			},
			Complete: sink.Complete,
		})
		sink.OnCleanup(inner.Unsubscribe)
	})
}
