package stream

import (
	"sync"
)

// SwitchMap projects each value of src into an inner stream and forwards
// the inner stream's values, switching away from (unsubscribing) any
// still-active inner stream whenever src emits a new value. Events from a
// superseded inner stream are suppressed entirely, even if they were
// already in flight when the switch happened.
//
// The result completes once src has completed and the last inner stream has
// completed. An inner stream failure fails the result.
func SwitchMap[T, U any](src Stream[T], project func(T) Stream[U]) Stream[U] {
	return New(func(sink *Sink[U]) {
		var (
			mu          sync.Mutex
			seq         uint64
			innerActive bool
			outerDone   bool

			// current holds the active inner subscription under its own
			// lock. Terminal deliveries below run while mu is held and can
			// tear down the downstream subscription, so the teardown must
			// not contend on mu.
			current currentSub
		)

		// forward runs fn under the switch lock, and only while the inner
		// generation that produced the event is still current. Stale
		// generations are dropped, which is what suppresses results of
		// cancelled fetches; holding the lock through delivery closes the
		// race where a new query lands mid-delivery.
		forward := func(mySeq uint64, fn func()) {
			mu.Lock()
			defer mu.Unlock()
			if seq != mySeq {
				return
			}
			fn()
		}

		outer := src.Subscribe(Subscriber[T]{
			Next: func(v T) {
				inner := project(v)

				mu.Lock()
				seq++
				mySeq := seq
				innerActive = true
				mu.Unlock()

				if prev := current.swap(nil); prev != nil {
					prev.Unsubscribe()
				}

				newSub := inner.Subscribe(Subscriber[U]{
					Next: func(u U) {
						forward(mySeq, func() { sink.Next(u) })
					},
					Error: func(err error) {
						forward(mySeq, func() { sink.Error(err) })
					},
					Complete: func() {
						forward(mySeq, func() {
							innerActive = false
							if outerDone {
								sink.Complete()
							}
						})
					},
				})

				mu.Lock()
				if seq == mySeq {
					current.swap(newSub)
					mu.Unlock()
					return
				}
				mu.Unlock()
				// A newer value arrived while we were subscribing.
				newSub.Unsubscribe()
			},
			Error: sink.Error,
			Complete: func() {
				mu.Lock()
				outerDone = true
				idle := !innerActive
				mu.Unlock()
				if idle {
					sink.Complete()
				}
			},
		})

		sink.OnCleanup(outer.Unsubscribe)
		sink.OnCleanup(func() {
			if sub := current.swap(nil); sub != nil {
				sub.Unsubscribe()
			}
		})
	})
}

// currentSub tracks the active inner subscription of a SwitchMap.
type currentSub struct {
	mu  sync.Mutex
	sub *Subscription
}

func (c *currentSub) swap(next *Subscription) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.sub
	c.sub = next
	return prev
}

