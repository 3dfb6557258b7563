package acid

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments, initialized once via InitMetrics(). They start as
// no-ops so handlers are safe to call before initialization.
var (
	solveCounter   metric.Int64Counter     = noop.Int64Counter{}
	solveHistogram metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter   metric.Int64Counter     = noop.Int64Counter{}
	phGauge        metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers the OTel instruments for the weak acid domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("acid")

	var err error

	solveCounter, err = meter.Int64Counter("acid.solves.total",
		metric.WithDescription("Total number of successful equilibrium solves, by path"),
		metric.WithUnit("{solve}"),
	)
	if err != nil {
		return fmt.Errorf("creating solve counter: %w", err)
	}

	solveHistogram, err = meter.Float64Histogram("acid.solve.duration",
		metric.WithDescription("Duration of equilibrium solves in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating solve histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("acid.errors.total",
		metric.WithDescription("Total number of failed solves, by operation and kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	phGauge, err = meter.Float64Gauge("acid.last_ph",
		metric.WithDescription("The pH of the last successful solve"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating pH gauge: %w", err)
	}

	return nil
}
