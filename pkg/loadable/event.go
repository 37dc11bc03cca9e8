package loadable

// eventKind discriminates the internal fetch lifecycle events fed into the
// reactive reduction. Never exposed to callers.
type eventKind int

const (
	eventLoading eventKind = iota
	eventSuccess
	eventError
)

// event is one lifecycle signal of the reactive query loader.
type event[T any] struct {
	kind eventKind
	data T
	err  error
}

// apply folds the event into the running state.
//
// Transition rules, applied strictly left-to-right:
//   - loading: keep data, raise the loading flag, clear the error
//   - success: new data, loading unconditionally cleared, error cleared
//   - error: keep data, loading cleared, record the error
func (e event[T]) apply(state Loadable[T]) Loadable[T] {
	switch e.kind {
	case eventLoading:
		return Loadable[T]{Loading: true, Data: state.Data}
	case eventSuccess:
		return Loadable[T]{Data: e.data}
	default:
		return Loadable[T]{Data: state.Data, Err: e.err}
	}
}
