// Package source provides ready-made fetch functions for common backends.
// Each adapter returns a context-aware function that composes with
// stream.FromFunc and loadable.NewReactiveFunc.
package source
