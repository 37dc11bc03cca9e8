package loadable

import (
	"context"

	"github.com/dangmixx/loadable/pkg/stream"
)

// NewReactive builds a continuously updated loadable stream from a stream
// of query values and a fetch function. Every query emission produces a
// loading snapshot immediately and triggers the fetch; a newer query
// cancels the previous in-flight fetch outright, so a superseded fetch's
// outcome never reaches the output. Fetch failures become error snapshots
// carrying the last known good data, never stream termination.
//
// The returned stream is multicast with a replay buffer of one: all
// subscribers observe the same snapshots and the fetch runs once per query
// regardless of subscriber count. Late subscribers receive the most recent
// snapshot immediately. When the last subscriber leaves, the whole pipeline
// is torn down; a later first subscriber restarts it from scratch, which
// re-runs the current query only if the query stream itself replays (as a
// BehaviorSubject does).
func NewReactive[Q, T any](
	queries stream.Stream[Q],
	fetch func(Q) stream.Stream[T],
	initial T,
) stream.Stream[Loadable[T]] {
	// Loading events travel on their own path and are merged ahead of the
	// fetch path, so each query's loading snapshot precedes its outcome.
	loadings := stream.Map(queries, func(Q) event[T] {
		return event[T]{kind: eventLoading}
	})

	results := stream.SwitchMap(queries, func(q Q) stream.Stream[event[T]] {
		successes := stream.Map(fetch(q), func(v T) event[T] {
			return event[T]{kind: eventSuccess, data: v}
		})
		return stream.Catch(successes, func(err error) stream.Stream[event[T]] {
			return stream.Of(event[T]{kind: eventError, err: err})
		})
	})

	states := stream.Scan(
		stream.Merge(loadings, results),
		Loadable[T]{Data: initial},
		func(state Loadable[T], e event[T]) Loadable[T] {
			return e.apply(state)
		},
	)

	return stream.ShareReplay(states)
}

// NewReactiveFunc is NewReactive for ordinary Go fetch functions. The
// context passed to fetch is cancelled when a newer query supersedes the
// fetch or when the pipeline is torn down.
func NewReactiveFunc[Q, T any](
	queries stream.Stream[Q],
	fetch func(ctx context.Context, query Q) (T, error),
	initial T,
) stream.Stream[Loadable[T]] {
	return NewReactive(queries, func(q Q) stream.Stream[T] {
		return stream.FromFunc(func(ctx context.Context) (T, error) {
			return fetch(ctx, q)
		})
	}, initial)
}
