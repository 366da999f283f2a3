package main

import (
	"context"
	"fmt"

	"github.com/kbukum/voicenotes/bootstrap"
	"github.com/kbukum/voicenotes/component"
	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/host"
	"github.com/kbukum/voicenotes/host/httphost"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/notify"
	"github.com/kbukum/voicenotes/observability"
	"github.com/kbukum/voicenotes/plugin"
	"github.com/kbukum/voicenotes/server"
	"github.com/kbukum/voicenotes/sse"
	"github.com/kbukum/voicenotes/vault"
	"github.com/kbukum/voicenotes/version"

	// Vault providers register themselves.
	_ "github.com/kbukum/voicenotes/vault/local"
	_ "github.com/kbukum/voicenotes/vault/s3"
)

// serve runs the daemon until interrupted.
func serve(ctx context.Context, cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(shutdownTelemetry)

	metrics, err := observability.NewGlobalMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	store, err := vault.New(cfg.Vault, log)
	if err != nil {
		return fmt.Errorf("vault: %w", err)
	}

	h := host.NewLocal(log)
	events := sse.NewComponent("/events", log)
	bridge := sse.NewBridge(events.Hub())
	h.AddListener(bridge)
	h.AddNotifier(bridge)
	if cfg.Notifications.Desktop {
		h.AddNotifier(notify.NewDesktop(cfg.Notifications, log))
	}

	p := plugin.New(plugin.Options{
		Host:           h,
		Settings:       config.NewSettingsStore(cfg.DataFile),
		Store:          store,
		BackendTimeout: cfg.Backend.Timeout,
		CheckTimeout:   cfg.Backend.CheckTimeout,
		Metrics:        metrics,
		Logger:         log,
	})

	srv := server.New(cfg.Control, log)
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	httphost.New(h, p, events.Hub(), log).Register(srv.GinEngine(), srv.CommandLimiter())

	// The hub must run before the plugin sets the indicator, and the vault
	// probe needs the plugin's target document.
	if err := registerAll(app,
		events,
		p,
		vault.NewComponent(store, cfg.Vault, func() string { return p.Settings().TargetNoteName }, log),
		server.NewComponent(srv),
	); err != nil {
		return err
	}

	log.Debug("daemon wired", logger.Fields("data_file", cfg.DataFile, "vault", cfg.Vault.Provider))
	return app.Run(ctx)
}

func registerAll(app *bootstrap.App[*Config], components ...component.Component) error {
	for _, c := range components {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}
	return nil
}
