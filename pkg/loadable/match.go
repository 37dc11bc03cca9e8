package loadable

// Handler handles a specific state in Match.
type Handler[T, R any] interface {
	handle(*State[T]) (R, bool)
}

// Match returns the result of the first handler that matches the current
// status. When no handler matches, the zero R and false are returned.
func Match[T, R any](s *State[T], handlers ...Handler[T, R]) (R, bool) {
	for _, h := range handlers {
		if r, ok := h.handle(s); ok {
			return r, true
		}
	}
	var zero R
	return zero, false
}

type idleHandler[T, R any] struct {
	fn func() R
}

func (h idleHandler[T, R]) handle(s *State[T]) (R, bool) {
	if s.Status() == StatusIdle {
		return h.fn(), true
	}
	var zero R
	return zero, false
}

type loadingHandler[T, R any] struct {
	fn func() R
}

func (h loadingHandler[T, R]) handle(s *State[T]) (R, bool) {
	if s.Status() == StatusLoading {
		return h.fn(), true
	}
	var zero R
	return zero, false
}

type successHandler[T, R any] struct {
	fn func(T) R
}

func (h successHandler[T, R]) handle(s *State[T]) (R, bool) {
	if s.Status() == StatusSuccess {
		return h.fn(s.Data()), true
	}
	var zero R
	return zero, false
}

type errorHandler[T, R any] struct {
	fn func(error) R
}

func (h errorHandler[T, R]) handle(s *State[T]) (R, bool) {
	if s.Status() == StatusError {
		return h.fn(s.Err()), true
	}
	var zero R
	return zero, false
}

// OnIdle handles the StatusIdle state.
func OnIdle[T, R any](fn func() R) Handler[T, R] {
	return idleHandler[T, R]{fn: fn}
}

// OnLoading handles the StatusLoading state.
func OnLoading[T, R any](fn func() R) Handler[T, R] {
	return loadingHandler[T, R]{fn: fn}
}

// OnSuccess handles the StatusSuccess state.
func OnSuccess[T, R any](fn func(T) R) Handler[T, R] {
	return successHandler[T, R]{fn: fn}
}

// OnError handles the StatusError state.
func OnError[T, R any](fn func(error) R) Handler[T, R] {
	return errorHandler[T, R]{fn: fn}
}
