package middleware

import (
	"context"
)

// Fetch is a context-aware fetch function, the unit every wrapper in this
// package decorates. It matches the fetch signature of
// loadable.NewReactiveFunc.
type Fetch[Q, T any] func(ctx context.Context, query Q) (T, error)

// Middleware decorates a fetch function.
type Middleware[Q, T any] func(Fetch[Q, T]) Fetch[Q, T]

// Chain applies middlewares to fetch so that the first middleware is the
// outermost wrapper.
func Chain[Q, T any](fetch Fetch[Q, T], middlewares ...Middleware[Q, T]) Fetch[Q, T] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fetch = middlewares[i](fetch)
	}
	return fetch
}
