package observability

import (
	"context"
	"errors"
)

// Setup initializes the signals enabled in cfg and returns a function that
// flushes and shuts them down. With nothing enabled the global no-op
// providers stay in place.
func Setup(ctx context.Context, cfg Config, svc ServiceInfo) (func(context.Context) error, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Tracing {
		tp, err := InitTracer(ctx, cfg, svc)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Metrics {
		mp, err := InitMeter(ctx, cfg, svc)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return shutdown, nil
}
