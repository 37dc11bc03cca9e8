package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestOpenTelemetry_PassesThroughResult(t *testing.T) {
	fetch := OpenTelemetry(func(ctx context.Context, q string) (int, error) {
		return len(q), nil
	})

	got, err := fetch(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Fatalf("result = %d, want 5", got)
	}
}

func TestOpenTelemetry_PropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	fetch := OpenTelemetry(func(ctx context.Context, q string) (int, error) {
		return 0, wantErr
	}, WithIncludeQuery(true))

	_, err := fetch(context.Background(), "q")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestOpenTelemetry_StartsSpanOnContext(t *testing.T) {
	var inner context.Context
	fetch := OpenTelemetry(func(ctx context.Context, q string) (string, error) {
		inner = ctx
		return q, nil
	}, WithTracerName("test"), WithSpanName("test.fetch"))

	if _, err := fetch(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner == nil {
		t.Fatal("fetch was not invoked")
	}
	// With the default noop provider the span is still present on the
	// context, just not recording.
	if trace.SpanFromContext(inner) == nil {
		t.Fatal("expected a span on the fetch context")
	}
}
