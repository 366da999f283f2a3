package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/voicenotes/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	summary         io.Writer
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger. If not set, the logger is initialized from the
// config's Logging field.
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

// WithSummaryWriter sets where the startup summary is printed. Defaults to stdout.
func WithSummaryWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.summary = w
	}
}
