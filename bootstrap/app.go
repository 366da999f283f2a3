package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/voicenotes/component"
	"github.com/kbukum/voicenotes/logger"
)

// App runs the daemon lifecycle: start components, run hooks, print the
// summary, wait for a signal, stop in reverse order. The type parameter C is
// the config type; any struct embedding config.ServiceConfig satisfies Config.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	summary         io.Writer
	signals         []os.Signal

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		summary:         os.Stdout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summary != nil {
		app.summary = o.summary
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging, base.Name)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry(app.Logger)
	return app, nil
}

// RegisterComponent adds a component to the registry. Components start in
// registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the app and blocks until a shutdown signal or ctx ends, then
// stops it.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		a.stopAfterFailedStartup()
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	// A degraded backend is reported, not fatal: the daemon must run to
	// show the backend-down notice.
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		a.stopAfterFailedStartup()
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	component.WriteSummary(ctx, a.summary, a.Components, a.Name, a.Version, time.Since(start))
	return nil
}

func (a *App[C]) stopAfterFailedStartup() {
	if err := a.stop(); err != nil {
		a.Logger.Warn("cleanup after failed startup", logger.Fields(logger.FieldError, err.Error()))
	}
}

// WaitForSignal blocks until an interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the app. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks then stops components within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("shutting down", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}

	a.Logger.Info("shutdown complete")
	return shutdownErr
}
