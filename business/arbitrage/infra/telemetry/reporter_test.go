package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestReporter_RecordsEvaluations(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r, err := NewReporterWithMeter(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewReporterWithMeter: %v", err)
	}

	for _, d := range []domain.Diagnosis{domain.Positive, domain.Positive, domain.Negative} {
		r.Report(&domain.Report{
			Route:    domain.Route{Mode: domain.ModeSingleAsset},
			Result:   &domain.Result{Diagnosis: d, NetSpreadPercent: decimal.RequireFromString("1.5")},
			Warnings: []string{"advisory unavailable"},
			Duration: 250 * time.Millisecond,
		})
	}
	r.Report(&domain.Report{})
	r.UpdateConnectionStatus("MEXC", true, 80*time.Millisecond)

	data := collect(t, reader)

	sum, ok := data["evaluator.evaluations"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("evaluations = %T", data["evaluator.evaluations"])
	}
	byDiagnosis := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value("diagnosis")
		byDiagnosis[v.AsString()] += dp.Value
	}
	if byDiagnosis["Positive"] != 2 || byDiagnosis["Negative"] != 1 {
		t.Errorf("evaluations by diagnosis = %v", byDiagnosis)
	}

	warnings := data["evaluator.warnings"].(metricdata.Sum[int64])
	if len(warnings.DataPoints) != 1 || warnings.DataPoints[0].Value != 3 {
		t.Errorf("warnings = %+v", warnings.DataPoints)
	}

	latency := data["evaluator.exchange.latency"].(metricdata.Histogram[float64])
	if len(latency.DataPoints) != 1 || latency.DataPoints[0].Sum != 80 {
		t.Errorf("latency = %+v", latency.DataPoints)
	}
}
