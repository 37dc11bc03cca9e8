// Package middleware provides optional instrumentation wrappers for fetch
// functions used with the loadable package: Prometheus metrics and
// OpenTelemetry tracing.
//
// The loadable core performs no logging or metrics itself; observability is
// layered onto the fetch function by the caller:
//
//	fetch := middleware.Prometheus(
//	    middleware.OpenTelemetry(fetchUsers),
//	)
//	states := loadable.NewReactiveFunc(query, fetch, []User{})
package middleware
