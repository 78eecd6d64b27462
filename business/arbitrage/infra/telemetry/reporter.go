// Package telemetry records evaluation reports as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

const meterName = "github.com/fd1az/arbitrage-evaluator/business/arbitrage"

// Reporter implements app.Reporter on top of a metric.Meter.
type Reporter struct {
	evaluations metric.Int64Counter
	warnings    metric.Int64Counter
	duration    metric.Float64Histogram
	spread      metric.Float64Histogram
	latency     metric.Float64Histogram
}

var _ app.Reporter = (*Reporter)(nil)

// NewReporter creates the instruments on the global meter provider.
func NewReporter() (*Reporter, error) {
	return NewReporterWithMeter(otel.Meter(meterName))
}

// NewReporterWithMeter creates the instruments on meter.
func NewReporterWithMeter(meter metric.Meter) (*Reporter, error) {
	evaluations, err := meter.Int64Counter("evaluator.evaluations",
		metric.WithDescription("Completed evaluations by mode and diagnosis"))
	if err != nil {
		return nil, err
	}
	warnings, err := meter.Int64Counter("evaluator.warnings",
		metric.WithDescription("Non-fatal pipeline warnings"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("evaluator.evaluation.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("End-to-end evaluation time"))
	if err != nil {
		return nil, err
	}
	spread, err := meter.Float64Histogram("evaluator.net_spread",
		metric.WithUnit("%"),
		metric.WithDescription("Net spread after fees"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("evaluator.exchange.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Price fetch latency per exchange"))
	if err != nil {
		return nil, err
	}

	return &Reporter{
		evaluations: evaluations,
		warnings:    warnings,
		duration:    duration,
		spread:      spread,
		latency:     latency,
	}, nil
}

func (r *Reporter) Start(ctx context.Context) error { return nil }

func (r *Reporter) Stop() error { return nil }

// Report records one evaluation.
func (r *Reporter) Report(report *domain.Report) {
	if report == nil || report.Result == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("mode", report.Route.Mode.String()),
		attribute.String("diagnosis", string(report.Result.Diagnosis)),
	)

	r.evaluations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, float64(report.Duration)/float64(time.Millisecond), attrs)
	r.spread.Record(ctx, report.Result.NetSpreadPercent.InexactFloat64(), attrs)
	if n := len(report.Warnings); n > 0 {
		r.warnings.Add(ctx, int64(n))
	}
}

func (r *Reporter) UpdateQuotes(quotes ...*pricing.Quote) {}

// UpdateConnectionStatus records fetch latency.
func (r *Reporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	r.latency.Record(context.Background(), float64(latency)/float64(time.Millisecond),
		metric.WithAttributes(
			attribute.String("exchange", name),
			attribute.Bool("connected", connected),
		))
}
