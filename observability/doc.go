// Package observability provides OpenTelemetry tracing and metrics for
// generation sessions.
//
// Every session gets a span and is counted by outcome. Export over OTLP/HTTP
// starts only when the telemetry endpoint is configured:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, observability.ServiceInfo{Name: "inkflow"})
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter())
//	sc := observability.NewSessionContext(id, metrics)
//	ctx = sc.Start(ctx)
//	defer sc.End(ctx, "completed", "", "", "", nil)
package observability
