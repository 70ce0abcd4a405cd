package tracing

import (
	"context"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// SpanFunc is a function that executes within a traced span
type SpanFunc func(ctx context.Context, span tracer.Span) error

// TraceOperation runs fn inside a span named operationName carrying tags.
// A returned error marks the span failed.
func TraceOperation(ctx context.Context, operationName string, tags map[string]interface{}, fn SpanFunc) error {
	span, ctx := tracer.StartSpanFromContext(ctx, operationName)
	defer span.Finish()

	for key, value := range tags {
		span.SetTag(key, value)
	}

	err := fn(ctx, span)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		span.SetTag("query.success", false)
	}

	return err
}

// AddSpanSuccess marks the span successful and adds result tags
func AddSpanSuccess(span tracer.Span, tags map[string]interface{}) {
	span.SetTag("query.success", true)
	for key, value := range tags {
		span.SetTag(key, value)
	}
}
