package loadable

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dangmixx/loadable/pkg/stream"
)

func TestReactiveLoadingPrecedesOutcome(t *testing.T) {
	queries := stream.NewSubject[string]()
	states := NewReactive(queries, func(q string) stream.Stream[int] {
		return stream.Of(len(q))
	}, 0)

	rec := newRecorder[int]()
	sub := states.Subscribe(rec.subscriber())
	defer sub.Unsubscribe()

	queries.Next("abc")

	rec.waitStates(t, 2)
	got, _ := rec.snapshot()
	if !got[0].Loading || got[0].Data != 0 || got[0].Err != nil {
		t.Errorf("first state = %+v, want loading with initial data", got[0])
	}
	if got[1].Loading || got[1].Data != 3 || got[1].Err != nil {
		t.Errorf("second state = %+v, want success with 3", got[1])
	}
}

func TestReactiveSuccessClearsError(t *testing.T) {
	boom := errors.New("boom")
	queries := stream.NewSubject[string]()
	states := NewReactive(queries, func(q string) stream.Stream[string] {
		if q == "bad" {
			return stream.Fail[string](boom)
		}
		return stream.Of(q + "!")
	}, "")

	rec := newRecorder[string]()
	sub := states.Subscribe(rec.subscriber())
	defer sub.Unsubscribe()

	queries.Next("bad")
	rec.waitStates(t, 2)
	queries.Next("good")
	rec.waitStates(t, 4)

	got, _ := rec.snapshot()
	errState := got[1]
	if errState.Loading || !errors.Is(errState.Err, boom) {
		t.Errorf("error state = %+v", errState)
	}
	// The next loading state clears the error.
	if got[2].Err != nil || !got[2].Loading {
		t.Errorf("loading state after error = %+v, want cleared error", got[2])
	}
	final := got[3]
	if final.Loading || final.Data != "good!" || final.Err != nil {
		t.Errorf("final state = %+v, want {false good! nil}", final)
	}
}

func TestReactiveErrorRetainsPreviousData(t *testing.T) {
	boom := errors.New("boom")
	queries := stream.NewSubject[string]()
	states := NewReactive(queries, func(q string) stream.Stream[string] {
		if q == "bad" {
			return stream.Fail[string](boom)
		}
		return stream.Of("payload")
	}, "initial")

	rec := newRecorder[string]()
	sub := states.Subscribe(rec.subscriber())
	defer sub.Unsubscribe()

	queries.Next("good")
	rec.waitStates(t, 2)
	queries.Next("bad")
	rec.waitStates(t, 4)

	got, _ := rec.snapshot()
	errState := got[3]
	if errState.Loading {
		t.Errorf("error state still loading: %+v", errState)
	}
	if errState.Data != "payload" {
		t.Errorf("error state data = %q, want previous data retained", errState.Data)
	}
	if !errors.Is(errState.Err, boom) {
		t.Errorf("error state err = %v, want boom", errState.Err)
	}
	// The loading state in between also kept the data.
	if got[2].Data != "payload" || !got[2].Loading {
		t.Errorf("loading state = %+v, want data retained", got[2])
	}
}

func TestReactiveSupersededFetchNeverApplies(t *testing.T) {
	queries := stream.NewSubject[string]()

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	states := NewReactiveFunc(queries, func(ctx context.Context, q string) (string, error) {
		if q == "slow" {
			close(firstStarted)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-release:
				return "slow-result", nil
			}
		}
		return "fast-result", nil
	}, "")

	rec := newRecorder[string]()
	sub := states.Subscribe(rec.subscriber())
	defer sub.Unsubscribe()

	queries.Next("slow")
	<-firstStarted
	queries.Next("fast")

	// loading(slow), loading(fast), success(fast)
	rec.waitStates(t, 3)
	close(release)
	time.Sleep(20 * time.Millisecond)

	got, _ := rec.snapshot()
	for _, st := range got {
		if st.Data == "slow-result" {
			t.Errorf("superseded fetch applied: %+v", got)
		}
	}
	final := got[len(got)-1]
	if final.Loading || final.Data != "fast-result" {
		t.Errorf("final state = %+v, want fast-result", final)
	}
}

func TestReactiveMulticastSingleFetchPerQuery(t *testing.T) {
	var fetches atomic.Int64
	queries := stream.NewSubject[int]()

	states := NewReactiveFunc(queries, func(ctx context.Context, q int) (int, error) {
		fetches.Add(1)
		return q * 10, nil
	}, 0)

	first := newRecorder[int]()
	second := newRecorder[int]()
	sub1 := states.Subscribe(first.subscriber())
	sub2 := states.Subscribe(second.subscriber())
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	queries.Next(1)
	first.waitStates(t, 2)
	second.waitStates(t, 2)

	if n := fetches.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1 regardless of subscriber count", n)
	}

	firstStates, _ := first.snapshot()
	secondStates, _ := second.snapshot()
	if len(firstStates) != len(secondStates) {
		t.Fatalf("sequences differ in length: %v vs %v", firstStates, secondStates)
	}
	for i := range firstStates {
		if firstStates[i] != secondStates[i] {
			t.Errorf("sequences diverge at %d: %+v vs %+v", i, firstStates[i], secondStates[i])
		}
	}
}

func TestReactiveLateSubscriberGetsLatestState(t *testing.T) {
	queries := stream.NewSubject[int]()
	states := NewReactiveFunc(queries, func(ctx context.Context, q int) (int, error) {
		return q, nil
	}, 0)

	first := newRecorder[int]()
	sub1 := states.Subscribe(first.subscriber())
	defer sub1.Unsubscribe()

	queries.Next(7)
	first.waitStates(t, 2)

	late := newRecorder[int]()
	sub2 := states.Subscribe(late.subscriber())
	defer sub2.Unsubscribe()

	late.waitStates(t, 1)
	got, _ := late.snapshot()
	if got[0].Loading || got[0].Data != 7 {
		t.Errorf("replayed state = %+v, want latest success", got[0])
	}
}

func TestReactiveRestartsWithReplayingQueryStream(t *testing.T) {
	var fetches atomic.Int64
	queries := stream.NewBehaviorSubject("q")

	states := NewReactiveFunc(queries, func(ctx context.Context, q string) (string, error) {
		fetches.Add(1)
		return q + "-data", nil
	}, "")

	first := newRecorder[string]()
	sub := states.Subscribe(first.subscriber())
	first.waitStates(t, 2)
	sub.Unsubscribe()

	// With no subscribers left the pipeline is gone; a new subscriber
	// restarts it and the behavior subject replays the current query.
	second := newRecorder[string]()
	sub2 := states.Subscribe(second.subscriber())
	defer sub2.Unsubscribe()

	second.waitStates(t, 2)
	if n := fetches.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2 (one per pipeline run)", n)
	}
	got, _ := second.snapshot()
	if !got[0].Loading {
		t.Errorf("restarted pipeline state[0] = %+v, want fresh loading", got[0])
	}
	if got[1].Data != "q-data" {
		t.Errorf("restarted pipeline state[1] = %+v", got[1])
	}
}
