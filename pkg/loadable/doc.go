// Package loadable implements the loadable-state pattern for asynchronous
// data fetching: a uniform {loading, data, error} snapshot derived from an
// underlying stream, plus a query-driven variant that keeps the last known
// good data visible while a refetch is in flight.
//
// Basic usage:
//
//	users := loadable.WithLoading(source, []User{})
//
//	users.Subscribe(stream.Subscriber[loadable.Loadable[[]User]]{
//	    Next: func(st loadable.Loadable[[]User]) { render(st) },
//	})
//
// Query-driven usage:
//
//	query := stream.NewBehaviorSubject("initial")
//	states := loadable.NewReactiveFunc(query,
//	    func(ctx context.Context, q string) ([]User, error) {
//	        return api.SearchUsers(ctx, q)
//	    },
//	    []User{},
//	)
//
// The package performs no caching, retrying, or deduplication; errors are
// carried opaquely into the Err field and never terminate the query-driven
// stream.
package loadable
