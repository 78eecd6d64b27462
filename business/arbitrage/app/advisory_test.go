package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/retry"
)

// scriptedGenerator returns errs in order, then text.
type scriptedGenerator struct {
	errs  []error
	text  string
	calls int
	last  domain.EvaluationContext
}

func (g *scriptedGenerator) Generate(_ context.Context, evalCtx domain.EvaluationContext) (string, error) {
	g.calls++
	g.last = evalCtx
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		return "", err
	}
	return g.text, nil
}

func instant() retry.Option {
	return retry.WithSleeper(func(context.Context, time.Duration) error { return nil })
}

func TestAdvisoryAdapter_RequestAdvisory(t *testing.T) {
	unavailable := apperror.Transient("advisory: HTTP 503", nil)

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{name: "first_attempt", wantCalls: 1},
		{name: "recovers_after_503", errs: []error{unavailable, unavailable}, wantCalls: 3},
		{name: "exhausted", errs: []error{unavailable, unavailable, unavailable}, wantCalls: 3, wantErr: true},
		{name: "non_transient_not_retried", errs: []error{errors.New("bad request")}, wantCalls: 1, wantErr: true},
	}

	route := makeRoute(domain.ModeSingleAsset, "0.0315", "0.1", "0.0325", "0.2", "1000")
	result := NewEvaluator().Evaluate(route)
	net := network.Compatibility([]string{"ETH"}, []string{"ETH"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{errs: tt.errs, text: "Recommendation: Viable."}
			adapter := NewAdvisoryAdapter(gen, &mockLogger{}, instant())

			text, err := adapter.RequestAdvisory(context.Background(), result, net, route)

			if gen.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", gen.calls, tt.wantCalls)
			}
			if tt.wantErr {
				if !apperror.IsCode(err, apperror.CodeAdvisoryGenerationFailed) {
					t.Fatalf("error = %v, want ADVISORY_GENERATION_FAILED", err)
				}
				if text != "" {
					t.Errorf("text = %q, want empty", text)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != "Recommendation: Viable." {
				t.Errorf("text = %q", text)
			}
		})
	}
}

func TestAdvisoryAdapter_Context(t *testing.T) {
	route := makeRoute(domain.ModeSingleAsset, "0.0315", "0.1", "0.0325", "0.2", "1000")
	result := NewEvaluator().Evaluate(route)
	net := network.Compatibility([]string{"BSC", "ETH"}, []string{"ETH"})

	gen := &scriptedGenerator{text: "ok"}
	if _, err := NewAdvisoryAdapter(gen, &mockLogger{}).RequestAdvisory(context.Background(), result, net, route); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := gen.last
	if got.AssetA != "JASMY" || got.ExchangeA != "MEXC" || got.ExchangeB != "Gate.io" {
		t.Errorf("route fields = %+v", got)
	}
	if !got.InitialInvestment.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("InitialInvestment = %s", got.InitialInvestment)
	}
	if !got.FinalUSDTValue.Equal(result.FinalValue) || !got.Spread.Equal(result.NetSpreadPercent) {
		t.Errorf("result fields = %s / %s", got.FinalUSDTValue, got.Spread)
	}
	if !got.NetworkAnalysis.IsCompatible {
		t.Error("NetworkAnalysis not carried")
	}
}
