package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SessionContext carries the span and metric bookkeeping of one
// generation session. A nil Metrics skips metric recording.
type SessionContext struct {
	SessionID string
	Provider  string
	StartTime time.Time
	Metrics   *Metrics

	span      trace.Span
	fragments int
	inserted  int
}

// NewSessionContext creates a session context starting now.
func NewSessionContext(sessionID string, metrics *Metrics) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type sessionContextKey struct{}

// WithSessionContext stores sc in ctx.
func WithSessionContext(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sc)
}

// SessionContextFromContext returns the SessionContext in ctx, or nil.
func SessionContextFromContext(ctx context.Context) *SessionContext {
	if sc, ok := ctx.Value(sessionContextKey{}).(*SessionContext); ok {
		return sc
	}
	return nil
}

// Start opens the session span and counts the session as active.
func (sc *SessionContext) Start(ctx context.Context) context.Context {
	ctx, sc.span = StartSpan(ctx, SpanSession, trace.WithAttributes(
		attribute.String(AttrSessionID, sc.SessionID),
	))
	if sc.Metrics != nil {
		sc.Metrics.RecordSessionStart(ctx)
	}
	return WithSessionContext(ctx, sc)
}

// SetRequest annotates the span once the provider call is built.
func (sc *SessionContext) SetRequest(provider, model string, stream bool) {
	sc.Provider = provider
	if sc.span == nil {
		return
	}
	sc.span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
		attribute.Bool(AttrStream, stream),
	)
}

// RecordFragment counts one inserted fragment of chars runes.
func (sc *SessionContext) RecordFragment(ctx context.Context, chars int) {
	sc.fragments++
	sc.inserted += chars
	if sc.Metrics != nil {
		sc.Metrics.RecordFragment(ctx, sc.Provider, chars)
	}
}

// End closes the span and records the outcome. code is the error code of a
// failed session and empty otherwise.
func (sc *SessionContext) End(ctx context.Context, outcome, reason, kind, code string, err error) {
	duration := time.Since(sc.StartTime)

	if sc.span != nil {
		if err != nil {
			sc.span.RecordError(err)
			sc.span.SetStatus(codes.Error, err.Error())
			sc.span.SetAttributes(
				attribute.String(AttrErrorMessage, err.Error()),
				attribute.String(AttrErrorCode, code),
			)
		}
		sc.span.SetAttributes(
			attribute.String(AttrOutcome, outcome),
			attribute.Int(AttrFragments, sc.fragments),
			attribute.Int(AttrInserted, sc.inserted),
			attribute.Int64(AttrDurationMs, duration.Milliseconds()),
		)
		if reason != "" {
			sc.span.SetAttributes(attribute.String(AttrReason, reason))
		}
		sc.span.End()
	}

	if sc.Metrics != nil {
		if err != nil {
			sc.Metrics.RecordError(ctx, kind, code)
		}
		sc.Metrics.RecordSessionEnd(ctx, sc.Provider, outcome, duration)
	}
}

// Duration returns the elapsed time since the session started.
func (sc *SessionContext) Duration() time.Duration {
	return time.Since(sc.StartTime)
}
