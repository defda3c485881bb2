package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/inkflow/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	interrupt       InterruptFunc
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithInterruptHandler installs fn as the first responder to SIGINT/SIGTERM
// while a task runs.
func WithInterruptHandler(fn InterruptFunc) Option {
	return func(o *appOptions) {
		o.interrupt = fn
	}
}

// WithSummaryOutput sets where the startup summary is printed. Nil
// disables it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}
