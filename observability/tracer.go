package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/inkflow"

// Span names.
const (
	SpanSession = "completion.session"
	SpanRequest = "llm.request"
)

// Attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrProvider     = "llm.provider"
	AttrModel        = "llm.model"
	AttrStream       = "llm.stream"
	AttrHost         = "server.address"
	AttrOutcome      = "session.outcome"
	AttrReason       = "session.reason"
	AttrFragments    = "session.fragments"
	AttrInserted     = "session.inserted"
	AttrDurationMs   = "duration_ms"
	AttrErrorMessage = "error.message"
	AttrErrorCode    = "error.code"
)

// StartSpan starts a span on the global tracer provider.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// SpanFromContext returns the span in ctx (a no-op span if none).
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanError records err on the span in ctx and marks it failed.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
