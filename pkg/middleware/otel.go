package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for loadable fetch spans.
const defaultTracerName = "loadable"

// OTelConfig configures the OpenTelemetry fetch wrapper.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "loadable").
	TracerName string

	// SpanName is the span name for each fetch (default: "loadable.fetch").
	SpanName string

	// IncludeQuery records the query's string form as a span attribute.
	// Queries may contain sensitive information - disabled by default.
	IncludeQuery bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry fetch wrapper.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithSpanName sets the span name.
func WithSpanName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.SpanName = name
	}
}

// WithIncludeQuery enables recording the query value on the span.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		SpanName:   "loadable.fetch",
	}
}

// OpenTelemetry wraps fetch so every invocation runs inside its own span.
// Errors are recorded on the span and set its status.
//
// The tracer comes from the global OpenTelemetry tracer provider; configure
// that in main() before fetching.
//
// Example:
//
//	fetch := middleware.OpenTelemetry(fetchUsers,
//	    middleware.WithTracerName("my-app"),
//	)
func OpenTelemetry[Q, T any](fetch Fetch[Q, T], opts ...OTelOption) Fetch[Q, T] {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(ctx context.Context, query Q) (T, error) {
		ctx, span := config.tracer.Start(ctx, config.SpanName,
			trace.WithSpanKind(trace.SpanKindClient),
		)
		defer span.End()

		if config.IncludeQuery {
			span.SetAttributes(attribute.String("loadable.query", fmt.Sprint(query)))
		}

		result, err := fetch(ctx, query)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return result, err
	}
}
