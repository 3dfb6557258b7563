package main

import (
	"context"
	"errors"

	"weak-acid-ph/internal/acid"
	"weak-acid-ph/internal/config"
	"weak-acid-ph/internal/observability"
)

// initTelemetry initialises the tracer, meter and (when enabled) OTLP log
// providers plus the domain metric instruments. The returned function shuts
// all providers down in reverse order.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	if cfg.LogsExport {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	if err := acid.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
