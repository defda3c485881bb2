package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/inkflow/logger"
)

// InterruptFunc handles an interrupt signal. It returns true when the
// signal was consumed (for example by cancelling a running session) and
// the task should keep going.
type InterruptFunc func() bool

// App carries a CLI task through a uniform lifecycle: config defaults and
// validation, logger setup, start hooks, configure callbacks, the task
// itself, then stop hooks.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	gracefulTimeout time.Duration
	interrupt       InterruptFunc
	summaryOut      io.Writer
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetBaseConfig()
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 10 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	app.interrupt = o.interrupt
	app.summaryOut = o.summaryOut

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logCfg := *cfg.GetLoggingConfig()
		if base.Debug {
			logCfg.Level = "debug"
		}
		logger.Init(logCfg)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// OnConfigure registers a callback to run after the start hooks. Use it to
// wire clients and controllers once infrastructure is up.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// SetInterruptHandler replaces the interrupt handler. Configure callbacks
// use it once the component that can absorb an interrupt exists.
func (a *App[C]) SetInterruptHandler(fn InterruptFunc) {
	a.interrupt = fn
}

// RunTask executes a finite task with the full lifecycle. SIGINT/SIGTERM
// first go to the interrupt handler; an unhandled signal cancels the task
// context. Stop hooks always run.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go a.watchSignals(taskCtx, sigCh, cancel)

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

func (a *App[C]) watchSignals(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	for {
		select {
		case sig := <-sigCh:
			if a.interrupt != nil && a.interrupt() {
				a.Logger.Debug("interrupt handled", logger.Fields("signal", sig.String()))
				continue
			}
			a.Logger.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Debug("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	a.Summary.SetStartupDuration(time.Since(start))
	if a.summaryOut != nil {
		a.Summary.Display(a.summaryOut)
	}
	return nil
}

// Shutdown runs the stop hooks. Use when managing your own lifecycle.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.ErrorFields("stop", err))
		return err
	}
	a.Logger.Debug("application shutdown complete")
	return nil
}
