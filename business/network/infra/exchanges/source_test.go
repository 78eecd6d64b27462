package exchanges

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

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

const (
	mexcBody = `[
		{"coin":"JASMY","networkList":[
			{"network":"ERC20","depositEnable":true,"withdrawEnable":true},
			{"network":"BEP20","depositEnable":false,"withdrawEnable":true}
		]},
		{"coin":"BTC","networkList":[{"network":"BTC","depositEnable":true,"withdrawEnable":true}]}
	]`
	bitmartBody = `{"code":1000,"message":"OK","data":{"currencies":[
		{"currency":"JASMY","network_list":[
			{"name":"ERC20","deposit_enabled":true,"withdraw_enabled":false}
		]}
	]}}`
	gateBody = `[
		{"currency":"JASMY","chains":[
			{"chain":"ETH","deposit_disabled":false,"withdraw_disabled":true},
			{"chain":"MATIC","deposit_enable":true,"withdraw_enable":true}
		]}
	]`
	poloniexBody = `[
		{"currency":"jasmy","networks":[
			{"network":"ERC20","depositEnable":true,"withdrawEnable":true}
		]}
	]`
)

func newTestSource(t *testing.T, handlers map[pricing.Exchange]http.HandlerFunc, secret string) *Source {
	t.Helper()
	endpoints := make(map[pricing.Exchange]Endpoint)
	for ex, h := range handlers {
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)
		endpoints[ex] = Endpoint{BaseURL: srv.URL, APIKey: "key", APISecret: secret}
	}
	s, err := NewSource(Config{Endpoints: endpoints, CacheTTL: time.Minute}, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	return s
}

func body(b string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(b))
	}
}

func TestSource_AssetNetworks(t *testing.T) {
	s := newTestSource(t, map[pricing.Exchange]http.HandlerFunc{
		pricing.MEXC:     body(mexcBody),
		pricing.Bitmart:  body(bitmartBody),
		pricing.GateIO:   body(gateBody),
		pricing.Poloniex: body(poloniexBody),
	}, "")

	tests := []struct {
		exchange       pricing.Exchange
		wantDeposit    []string
		wantWithdrawal []string
	}{
		{pricing.MEXC, []string{"ERC20"}, []string{"ERC20", "BEP20"}},
		{pricing.Bitmart, []string{"ERC20"}, []string{}},
		{pricing.GateIO, []string{"ETH", "MATIC"}, []string{"MATIC"}},
		{pricing.Poloniex, []string{"ERC20"}, []string{"ERC20"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.exchange), func(t *testing.T) {
			got, err := s.AssetNetworks(context.Background(), tt.exchange, asset.Symbol("JASMY"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got.Deposit, tt.wantDeposit) {
				t.Errorf("Deposit = %v, want %v", got.Deposit, tt.wantDeposit)
			}
			if !slices.Equal(got.Withdrawal, tt.wantWithdrawal) {
				t.Errorf("Withdrawal = %v, want %v", got.Withdrawal, tt.wantWithdrawal)
			}
		})
	}
}

func TestSource_UnlistedAssetIsEmpty(t *testing.T) {
	s := newTestSource(t, map[pricing.Exchange]http.HandlerFunc{pricing.MEXC: body(mexcBody)}, "")

	got, err := s.AssetNetworks(context.Background(), pricing.MEXC, asset.Symbol("NOPE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Deposit) != 0 || len(got.Withdrawal) != 0 {
		t.Errorf("got %+v, want empty sets", got)
	}
}

func TestSource_CachesCurrencyList(t *testing.T) {
	var calls atomic.Int32
	s := newTestSource(t, map[pricing.Exchange]http.HandlerFunc{
		pricing.MEXC: func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			body(mexcBody)(w, r)
		},
	}, "")

	for _, sym := range []asset.Symbol{"JASMY", "BTC", "JASMY"} {
		if _, err := s.AssetNetworks(context.Background(), pricing.MEXC, sym); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestSource_ServiceUnavailableIsTransient(t *testing.T) {
	s := newTestSource(t, map[pricing.Exchange]http.HandlerFunc{
		pricing.GateIO: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	}, "")

	_, err := s.AssetNetworks(context.Background(), pricing.GateIO, asset.Symbol("JASMY"))
	if !apperror.IsTransient(err) {
		t.Errorf("err = %v, want transient", err)
	}
}

func TestSource_MEXCSignsRequests(t *testing.T) {
	const secret = "s3cret"
	s := newTestSource(t, map[pricing.Exchange]http.HandlerFunc{
		pricing.MEXC: func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-MEXC-APIKEY") != "key" {
				t.Errorf("missing api key header")
			}
			raw := r.URL.RawQuery
			i := strings.Index(raw, "&signature=")
			if i < 0 {
				t.Errorf("unsigned query %q", raw)
				return
			}
			mac := hmac.New(sha256.New, []byte(secret))
			mac.Write([]byte(raw[:i]))
			if want := hex.EncodeToString(mac.Sum(nil)); raw[i+len("&signature="):] != want {
				t.Errorf("bad signature for %q", raw[:i])
			}
			body(mexcBody)(w, r)
		},
	}, secret)

	if _, err := s.AssetNetworks(context.Background(), pricing.MEXC, asset.Symbol("BTC")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSource_BinanceWithoutKeysIsEmpty(t *testing.T) {
	s, err := NewSource(Config{}, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	got, err := s.AssetNetworks(context.Background(), pricing.Binance, asset.Symbol("BTC"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Withdrawal) != 0 {
		t.Errorf("got %+v, want empty", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	parsers := map[string]func([]byte) (currencyTable, error){
		"mexc":     parseMEXC,
		"bitmart":  parseBitmart,
		"gateio":   parseGateIO,
		"poloniex": parsePoloniex,
	}
	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			if _, err := parse([]byte("<html>")); apperror.GetCode(err) != apperror.CodeInvalidFormat {
				t.Errorf("code = %s, want INVALID_FORMAT", apperror.GetCode(err))
			}
		})
	}
}
