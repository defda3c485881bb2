package main

import (
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/kbukum/inkflow/bootstrap"
	"github.com/kbukum/inkflow/completion"
	"github.com/kbukum/inkflow/editor"
	"github.com/kbukum/inkflow/httpclient"
	"github.com/kbukum/inkflow/llm"
	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/observability"
)

// wiring holds the components built during startup.
type wiring struct {
	cfg      *AppConfig
	notices  io.Writer
	doc      *editor.Document
	ctrl     *completion.Controller
	template completion.Template
	shutdown observability.ShutdownFunc
}

func newWiring(cfg *AppConfig, notices io.Writer) *wiring {
	return &wiring{cfg: cfg, notices: notices, doc: editor.NewDocument()}
}

// register attaches the wiring to the app lifecycle.
func (w *wiring) register(app *bootstrap.App[*AppConfig]) {
	app.OnStart(w.startTelemetry)
	app.OnConfigure(w.configure)
	app.OnStop(w.stop)
}

func (w *wiring) startTelemetry(ctx context.Context) error {
	base := w.cfg.Base
	shutdown, err := observability.Setup(ctx, w.cfg.Telemetry, observability.ServiceInfo{
		Name:        base.Name,
		Version:     base.Version,
		Environment: base.Environment,
	})
	if err != nil {
		return err
	}
	w.shutdown = shutdown
	return nil
}

func (w *wiring) configure(_ context.Context, app *bootstrap.App[*AppConfig]) error {
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return err
	}
	hc, err := httpclient.New(w.cfg.Transport)
	if err != nil {
		return err
	}
	client := llm.NewClient(llm.NewHTTPTransport(hc))

	settings := w.cfg.AI
	w.ctrl = completion.NewController(w.doc, client,
		func() llm.Settings { return settings },
		completion.WithNotifier(newTerminalNotifier(w.notices, w.cfg.Logging.NoColor)),
		completion.WithMetrics(metrics),
		completion.WithLogger(logger.Get(logger.ComponentCompletion)),
	)
	app.SetInterruptHandler(w.ctrl.Cancel)

	trackProvider(app.Summary, settings)
	status := "disabled"
	if w.cfg.Telemetry.Enabled() {
		status = "active"
	}
	app.Summary.TrackComponent("telemetry", status, true)
	return nil
}

func (w *wiring) stop(ctx context.Context) error {
	var errs []error
	if w.ctrl != nil {
		errs = append(errs, w.ctrl.Shutdown(ctx))
	}
	if w.shutdown != nil {
		errs = append(errs, w.shutdown(ctx))
	}
	return errors.Join(errs...)
}

func trackProvider(s *bootstrap.Summary, settings llm.Settings) {
	p, err := llm.Lookup(settings.Provider)
	if err != nil {
		s.TrackClient(settings.Provider, "", "error", "llm")
		return
	}
	mode := "request"
	if settings.Streaming(p) {
		mode = "stream"
	}
	target := settings.EndpointFor(p)
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		target = u.Host
	}
	if target == "" {
		target = "(endpoint not set)"
	}
	s.TrackClient(p.DisplayName+" "+settings.ModelFor(p), target, "active", mode)
}
