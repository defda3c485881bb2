package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a meter from the global provider. Call it after Setup so
// instruments bind to the exporting provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded for generation sessions.
type Metrics struct {
	sessionTotal    metric.Int64Counter
	sessionDuration metric.Float64Histogram
	sessionActive   metric.Int64UpDownCounter
	fragmentTotal   metric.Int64Counter
	charTotal       metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sessionTotal, err := meter.Int64Counter("session.total",
		metric.WithDescription("Generation sessions by provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session.total counter: %w", err)
	}

	sessionDuration, err := meter.Float64Histogram("session.duration",
		metric.WithDescription("Duration of generation sessions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session.duration histogram: %w", err)
	}

	sessionActive, err := meter.Int64UpDownCounter("session.active",
		metric.WithDescription("Number of sessions not yet terminal"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session.active gauge: %w", err)
	}

	fragmentTotal, err := meter.Int64Counter("fragment.total",
		metric.WithDescription("Fragments inserted into the document"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fragment.total counter: %w", err)
	}

	charTotal, err := meter.Int64Counter("fragment.chars",
		metric.WithDescription("Characters inserted into the document"),
		metric.WithUnit("{char}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fragment.chars counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Failed sessions by error kind and code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		sessionTotal:    sessionTotal,
		sessionDuration: sessionDuration,
		sessionActive:   sessionActive,
		fragmentTotal:   fragmentTotal,
		charTotal:       charTotal,
		errorTotal:      errorTotal,
	}, nil
}

// RecordSessionStart increments the active session count.
func (m *Metrics) RecordSessionStart(ctx context.Context) {
	m.sessionActive.Add(ctx, 1)
}

// RecordSessionEnd decrements active sessions and records the outcome.
func (m *Metrics) RecordSessionEnd(ctx context.Context, provider, outcome string, duration time.Duration) {
	m.sessionActive.Add(ctx, -1)
	m.sessionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
	m.sessionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

// RecordFragment records one inserted fragment of chars runes.
func (m *Metrics) RecordFragment(ctx context.Context, provider string, chars int) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	m.fragmentTotal.Add(ctx, 1, attrs)
	m.charTotal.Add(ctx, int64(chars), attrs)
}

// RecordError records a failed session by error kind and code.
func (m *Metrics) RecordError(ctx context.Context, kind, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("code", code),
	))
}
