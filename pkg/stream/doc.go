// Package stream provides a minimal push-based reactive stream abstraction:
// cancellable subscriptions, a handful of composable operators, and hot
// subjects for multicasting.
//
// A Stream is cold by default: each Subscribe runs the producer from scratch.
// Delivery to a single subscriber is strictly serialized and stops
// permanently after an error, completion, or unsubscription.
//
// Basic usage:
//
//	s := stream.FromFunc(func(ctx context.Context) ([]User, error) {
//	    return api.FetchUsers(ctx)
//	})
//
//	sub := s.Subscribe(stream.Subscriber[[]User]{
//	    Next:  func(users []User) { render(users) },
//	    Error: func(err error) { showError(err) },
//	})
//	defer sub.Unsubscribe()
//
// Operators are free functions rather than methods because Go methods cannot
// introduce new type parameters.
package stream
