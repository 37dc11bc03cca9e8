package loadable

import (
	"errors"
	"testing"
)

func TestStateStartsIdle(t *testing.T) {
	s := NewState[string]()
	if !s.IsIdle() || s.Status() != StatusIdle {
		t.Errorf("status = %v, want idle", s.Status())
	}
	if s.Data() != "" || s.Err() != nil {
		t.Error("fresh state must have zero data and no error")
	}
}

func TestStateTransitions(t *testing.T) {
	boom := errors.New("boom")
	s := NewState[int]()

	s.Loading()
	if !s.IsLoading() {
		t.Errorf("status = %v, want loading", s.Status())
	}

	s.Success(42)
	if !s.IsSuccess() || s.Data() != 42 || s.Err() != nil {
		t.Errorf("after Success: status=%v data=%v err=%v", s.Status(), s.Data(), s.Err())
	}

	s.Fail(boom)
	if !s.IsError() || !errors.Is(s.Err(), boom) {
		t.Errorf("after Fail: status=%v err=%v", s.Status(), s.Err())
	}
	if s.Data() != 42 {
		t.Errorf("Fail dropped data: %v", s.Data())
	}

	// A new loading attempt clears the error but keeps data.
	s.Loading()
	if s.Err() != nil {
		t.Error("Loading must clear the error")
	}
	if s.Data() != 42 {
		t.Error("Loading must keep data")
	}

	s.Reset()
	if !s.IsIdle() || s.Data() != 0 || s.Err() != nil {
		t.Errorf("after Reset: status=%v data=%v err=%v", s.Status(), s.Data(), s.Err())
	}
}

func TestStateDataOr(t *testing.T) {
	s := NewState[string]()
	if s.DataOr("fallback") != "fallback" {
		t.Error("DataOr must return fallback before success")
	}
	s.Success("actual")
	if s.DataOr("fallback") != "actual" {
		t.Error("DataOr must return data after success")
	}
	s.Fail(errors.New("x"))
	if s.DataOr("fallback") != "fallback" {
		t.Error("DataOr must return fallback outside success")
	}
}

func TestStateSnapshot(t *testing.T) {
	s := NewState[int]()
	s.Loading()
	snap := s.Snapshot()
	if !snap.Loading || snap.Err != nil {
		t.Errorf("snapshot = %+v", snap)
	}

	boom := errors.New("boom")
	s.Success(7)
	s.Fail(boom)
	snap = s.Snapshot()
	if snap.Loading || snap.Data != 7 || !errors.Is(snap.Err, boom) {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStatusString(t *testing.T) {
	pairs := map[Status]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusSuccess: "success",
		StatusError:   "error",
	}
	for status, want := range pairs {
		if status.String() != want {
			t.Errorf("%d.String() = %q, want %q", status, status.String(), want)
		}
	}
}

func TestMatchPicksCurrentState(t *testing.T) {
	s := NewState[string]()
	s.Success("hello")

	got, ok := Match(s,
		OnLoading[string](func() string { return "spinner" }),
		OnError[string](func(err error) string { return "error" }),
		OnSuccess[string, string](func(data string) string { return data }),
	)
	if !ok || got != "hello" {
		t.Errorf("Match = %q ok=%v, want hello", got, ok)
	}
}

func TestMatchError(t *testing.T) {
	s := NewState[string]()
	s.Fail(errors.New("down"))

	got, ok := Match(s,
		OnSuccess[string, string](func(data string) string { return data }),
		OnError[string](func(err error) string { return err.Error() }),
	)
	if !ok || got != "down" {
		t.Errorf("Match = %q ok=%v, want down", got, ok)
	}
}

func TestMatchNoHandler(t *testing.T) {
	s := NewState[string]()
	// Idle state, but only a success handler supplied.
	got, ok := Match(s,
		OnSuccess[string, string](func(data string) string { return data }),
	)
	if ok || got != "" {
		t.Errorf("Match = %q ok=%v, want zero and false", got, ok)
	}
}
