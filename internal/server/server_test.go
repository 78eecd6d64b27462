package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	arbitrage "github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	arbitrageDomain "github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
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

type stubPrices struct {
	price    decimal.Decimal
	err      error
	routeReq pricing.RouteQuoteRequest
}

func (s *stubPrices) GetPrice(ctx context.Context, ex pricing.Exchange, rawAsset, counterpart string) (*pricing.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &pricing.Quote{Exchange: ex, Asset: rawAsset, Price: s.price}, nil
}

func (s *stubPrices) QuoteRoute(ctx context.Context, req pricing.RouteQuoteRequest) (*pricing.RouteQuote, error) {
	s.routeReq = req
	return &pricing.RouteQuote{Raw: json.RawMessage(`{"tool":"stargate"}`)}, nil
}

type stubCatalog struct {
	added map[pricing.Exchange][]string
}

func (s *stubCatalog) GetAssets(ctx context.Context, ex pricing.Exchange) ([]asset.Symbol, error) {
	return []asset.Symbol{"JASMY", "BTC"}, nil
}

func (s *stubCatalog) AddAsset(ctx context.Context, ex pricing.Exchange, rawAsset string) error {
	if s.added == nil {
		s.added = make(map[pricing.Exchange][]string)
	}
	s.added[ex] = append(s.added[ex], rawAsset)
	return nil
}

type stubNetworks struct{}

func (stubNetworks) Resolve(ctx context.Context, symbol asset.Symbol, src, dst pricing.Exchange) network.CompatibilityResult {
	return network.CompatibilityResult{IsCompatible: true, CommonNetworks: []string{"TRC20"}, Reasoning: "Common networks: TRC20"}
}

func (stubNetworks) MainNetwork(ctx context.Context, ex pricing.Exchange, symbol asset.Symbol) (string, error) {
	return "ERC20", nil
}

type stubEvaluator struct{ got arbitrage.Request }

func (s *stubEvaluator) Run(ctx context.Context, req arbitrage.Request) (*arbitrageDomain.Report, error) {
	s.got = req
	if req.Mode == 9 {
		return nil, apperror.Validation(apperror.CodeInvalidRoute, "unknown mode 9")
	}
	return &arbitrageDomain.Report{ID: "r1", Result: &arbitrageDomain.Result{Diagnosis: arbitrageDomain.Positive}}, nil
}

type stubAdvisor struct{}

func (stubAdvisor) Generate(ctx context.Context, c arbitrageDomain.EvaluationContext) (string, error) {
	return "Recommendation: Viable.", nil
}

func newTestServer(prices *stubPrices, catalog *stubCatalog, eval *stubEvaluator) *Server {
	return &Server{
		deps: Dependencies{
			Prices:     prices,
			Catalog:    catalog,
			Networks:   stubNetworks{},
			Evaluator:  eval,
			Calculator: arbitrage.NewEvaluator(),
			Advisor:    stubAdvisor{},
		},
		logger: &mockLogger{},
	}
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s response %q: %v", path, rec.Body.String(), err)
	}
	return rec, out
}

func TestHandlers(t *testing.T) {
	prices := &stubPrices{price: decimal.RequireFromString("0.0325")}
	catalog := &stubCatalog{}
	eval := &stubEvaluator{}
	h := newTestServer(prices, catalog, eval).Handler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		check  func(t *testing.T, out map[string]any)
	}{
		{
			name: "market price", path: "/api/get-market-price",
			body:   `{"exchange":"mexc","asset":"JASMY"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["price"] != "0.0325" {
					t.Errorf("price = %v", out["price"])
				}
			},
		},
		{
			name: "unknown exchange", path: "/api/get-market-price",
			body:   `{"exchange":"kraken","asset":"JASMY"}`,
			status: http.StatusBadRequest,
			check: func(t *testing.T, out map[string]any) {
				if code := out["error"].(map[string]any)["code"]; code != string(apperror.CodeUnknownExchange) {
					t.Errorf("code = %v", code)
				}
			},
		},
		{
			name: "add asset", path: "/api/add-asset",
			body:   `{"exchange":"Gate.io","asset":"pepe"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["success"] != true {
					t.Errorf("success = %v", out["success"])
				}
			},
		},
		{
			name: "exchange assets sorted", path: "/api/get-exchange-assets",
			body:   `{"exchange":"bitmart"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				assets := out["assets"].([]any)
				if len(assets) != 2 || assets[0] != "BTC" {
					t.Errorf("assets = %v", assets)
				}
			},
		},
		{
			name: "network analysis", path: "/api/network-analysis",
			body:   `{"asset":"usdt","sourceExchange":"mexc","destinationExchange":"poloniex"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["isCompatible"] != true {
					t.Errorf("isCompatible = %v", out["isCompatible"])
				}
			},
		},
		{
			name: "main network", path: "/api/get-main-network",
			body:   `{"exchange":"mexc","asset":"ETH"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["mainNetwork"] != "ERC20" {
					t.Errorf("mainNetwork = %v", out["mainNetwork"])
				}
			},
		},
		{
			name: "evaluate", path: "/api/evaluate",
			body:   `{"mode":1,"assetA":"JASMY","exchangeA":"mexc","priceA":0.0325,"feeA":0.1,"exchangeB":"gateio","feeB":0.1,"capital":1000}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["id"] != "r1" {
					t.Errorf("id = %v", out["id"])
				}
			},
		},
		{
			name: "evaluate invalid mode", path: "/api/evaluate",
			body:   `{"mode":9}`,
			status: http.StatusBadRequest,
		},
		{
			name: "investment analysis", path: "/api/investment-analysis",
			body:   `{"assetA":"JASMY","exchangeA":"MEXC","exchangeB":"Gate.io","spread":"2.5"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if !strings.HasPrefix(out["commentary"].(string), "Recommendation:") {
					t.Errorf("commentary = %v", out["commentary"])
				}
			},
		},
		{
			name: "investment analysis missing fields", path: "/api/investment-analysis",
			body:   `{}`,
			status: http.StatusBadRequest,
		},
		{
			name: "dex quote", path: "/api/dex-quote",
			body:   `{"fromChain":1,"toChain":42161,"fromToken":"USDC","toToken":"0xaf88d065e77c8cC2239327C5EDb3A432268e5831","amount":"100"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["tool"] != "stargate" {
					t.Errorf("raw quote = %v", out)
				}
			},
		},
		{
			name: "dex quote zero amount", path: "/api/dex-quote",
			body:   `{"fromChain":1,"toChain":1,"fromToken":"USDC","toToken":"ETH","amount":"0"}`,
			status: http.StatusBadRequest,
		},
		{
			name: "parity", path: "/api/parity",
			body:   `{"referencePrice":"0.5","factor":"0.06","directPrice":"0.0315"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["equivalent"] != "0.03" {
					t.Errorf("equivalent = %v", out["equivalent"])
				}
			},
		},
		{
			name: "parity zero direct price", path: "/api/parity",
			body:   `{"referencePrice":"0.5","factor":"0.06","directPrice":"0"}`,
			status: http.StatusBadRequest,
		},
		{
			name: "fixed fee swap default units", path: "/api/fixed-fee-swap",
			body:   `{"assetA":"JASMY","exchangeA":"mexc","priceA":"0.5","feeA":"0.1","assetB":"ETH","exchangeB":"gateio","priceB":"10","feeB":"0.1","capital":"1000","factor":"0.06"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["diagnosis"] != string(arbitrageDomain.Positive) || out["insufficientUnits"] != false {
					t.Errorf("swap = %v", out)
				}
			},
		},
		{
			name: "fixed fee swap insufficient units", path: "/api/fixed-fee-swap",
			body:   `{"assetA":"JASMY","exchangeA":"mexc","priceA":"0.5","feeA":"0.1","assetB":"ETH","exchangeB":"gateio","priceB":"10","feeB":"0.1","capital":"1000","fixedFeeUnits":"5000","factor":"0.06"}`,
			status: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				if out["insufficientUnits"] != true || out["netSpreadPercent"] != "-100" {
					t.Errorf("swap = %v", out)
				}
			},
		},
		{
			name: "fixed fee swap unknown exchange", path: "/api/fixed-fee-swap",
			body:   `{"assetA":"JASMY","exchangeA":"kraken","assetB":"ETH","exchangeB":"mexc","factor":"1"}`,
			status: http.StatusBadRequest,
		},
		{
			name: "malformed body", path: "/api/add-asset",
			body:   `{"exchange":`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := post(t, h, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}

	if got := catalog.added[pricing.GateIO]; len(got) != 1 || got[0] != "pepe" {
		t.Errorf("catalog additions = %v", catalog.added)
	}
	if !eval.got.LegA.Price.Equal(decimal.RequireFromString("0.0325")) || eval.got.LegB.Price != nil {
		t.Errorf("evaluate request legs = %+v / %+v", eval.got.LegA, eval.got.LegB)
	}
	if prices.routeReq.ToChain != 42161 || !prices.routeReq.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("route request = %+v", prices.routeReq)
	}
}

func TestHandler_UpstreamFailure(t *testing.T) {
	prices := &stubPrices{err: apperror.Transient("MEXC: HTTP 503", nil)}
	h := newTestServer(prices, &stubCatalog{}, &stubEvaluator{}).Handler()

	rec, out := post(t, h, "/api/get-market-price", `{"exchange":"mexc","asset":"BTC"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if code := out["error"].(map[string]any)["code"]; code != string(apperror.CodeServiceUnavailable) {
		t.Errorf("code = %v", code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestServer(&stubPrices{}, &stubCatalog{}, &stubEvaluator{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/evaluate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
