package lifi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

func TestQuoter_Quote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		checks := map[string]string{
			"fromChain":  "1",
			"toChain":    "1",
			"fromToken":  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			"toToken":    "0x6B175474E89094C44Da98b954EedeAC495271d0F",
			"fromAmount": "1000000",
			"integrator": "jumper.exchange",
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("%s = %q, want %q", k, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tool": "1inch",
			"estimate": {"fromAmount": "1000000", "toAmount": "999500000000000000", "toAmountMin": "994502500000000000"},
			"action": {"toToken": {"symbol": "DAI", "decimals": 18}}
		}`))
	}))
	defer server.Close()

	q, err := NewQuoter(Config{BaseURL: server.URL}, asset.DefaultRegistry(), &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create quoter: %v", err)
	}

	quote, err := q.Quote(context.Background(), domain.RouteQuoteRequest{
		FromChain: asset.ChainIDEthereum,
		FromToken: "USDT",
		ToToken:   "DAI",
		Amount:    decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !quote.Output.Equal(decimal.RequireFromString("0.9995")) {
		t.Errorf("output = %s, want 0.9995", quote.Output)
	}
	if !quote.EffectiveRate().Equal(decimal.RequireFromString("0.9995")) {
		t.Errorf("rate = %s, want 0.9995", quote.EffectiveRate())
	}
	if quote.Tool != "1inch" {
		t.Errorf("tool = %s, want 1inch", quote.Tool)
	}
}

func TestQuoter_RejectsMalformedAddress(t *testing.T) {
	q, err := NewQuoter(Config{BaseURL: "http://127.0.0.1:1"}, asset.DefaultRegistry(), &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create quoter: %v", err)
	}

	_, err = q.Quote(context.Background(), domain.RouteQuoteRequest{
		FromToken: "0xdead",
		ToToken:   "DAI",
		Amount:    decimal.NewFromInt(1),
	})
	if apperror.GetCode(err) != apperror.CodeInvalidTokenAddress {
		t.Errorf("code = %s, want INVALID_TOKEN_ADDRESS", apperror.GetCode(err))
	}
}

func TestQuoter_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"No available quotes for the requested transfer"}`))
	}))
	defer server.Close()

	q, _ := NewQuoter(Config{BaseURL: server.URL}, asset.DefaultRegistry(), &mockLogger{})
	_, err := q.Quote(context.Background(), domain.RouteQuoteRequest{
		FromToken: "USDC",
		ToToken:   "WETH",
		Amount:    decimal.NewFromInt(10),
	})
	if apperror.GetCode(err) != apperror.CodeRouteQuoteFailed {
		t.Errorf("code = %s, want ROUTE_QUOTE_FAILED", apperror.GetCode(err))
	}
}
