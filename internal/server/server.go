// Package server exposes the evaluator over a small JSON HTTP API and the
// live report websocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	arbitrage "github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	arbitrageDomain "github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/config"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

// PriceService fetches exchange prices and DEX route quotes.
type PriceService interface {
	GetPrice(ctx context.Context, exchange pricing.Exchange, rawAsset, counterpart string) (*pricing.Quote, error)
	QuoteRoute(ctx context.Context, req pricing.RouteQuoteRequest) (*pricing.RouteQuote, error)
}

// AssetCatalog lists and extends per-exchange asset lists.
type AssetCatalog interface {
	GetAssets(ctx context.Context, exchange pricing.Exchange) ([]asset.Symbol, error)
	AddAsset(ctx context.Context, exchange pricing.Exchange, rawAsset string) error
}

// NetworkService answers transfer network questions.
type NetworkService interface {
	Resolve(ctx context.Context, symbol asset.Symbol, source, destination pricing.Exchange) network.CompatibilityResult
	MainNetwork(ctx context.Context, exchange pricing.Exchange, symbol asset.Symbol) (string, error)
}

// Evaluator runs the evaluation pipeline.
type Evaluator interface {
	Run(ctx context.Context, req arbitrage.Request) (*arbitrageDomain.Report, error)
}

// Calculator exposes the standalone arithmetic helpers.
type Calculator interface {
	Parity(referencePrice, factor, directPrice decimal.Decimal) *arbitrageDomain.Parity
	FixedFeeSwap(route arbitrageDomain.Route, fixedFeeUnits, factor decimal.Decimal) *arbitrageDomain.SwapResult
}

// Advisor produces commentary for an evaluation context.
type Advisor interface {
	Generate(ctx context.Context, evalCtx arbitrageDomain.EvaluationContext) (string, error)
}

// Dependencies are the services behind the API. Live may be nil.
type Dependencies struct {
	Prices     PriceService
	Catalog    AssetCatalog
	Networks   NetworkService
	Evaluator  Evaluator
	Calculator Calculator
	Advisor    Advisor
	Live       http.Handler
}

// Server is the API listener.
type Server struct {
	deps   Dependencies
	logger logger.LoggerInterface
	http   *http.Server
}

// New creates a Server listening on cfg.Addr().
func New(cfg config.ServerConfig, deps Dependencies, log logger.LoggerInterface) *Server {
	s := &Server{deps: deps, logger: log}
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/get-market-price", s.handleMarketPrice)
	mux.HandleFunc("POST /api/add-asset", s.handleAddAsset)
	mux.HandleFunc("POST /api/get-exchange-assets", s.handleExchangeAssets)
	mux.HandleFunc("POST /api/network-analysis", s.handleNetworkAnalysis)
	mux.HandleFunc("POST /api/get-main-network", s.handleMainNetwork)
	mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /api/investment-analysis", s.handleInvestmentAnalysis)
	mux.HandleFunc("POST /api/dex-quote", s.handleDEXQuote)
	mux.HandleFunc("POST /api/parity", s.handleParity)
	mux.HandleFunc("POST /api/fixed-fee-swap", s.handleFixedFeeSwap)
	if s.deps.Live != nil {
		mux.Handle("GET /ws/live", s.deps.Live)
	}

	return otelhttp.NewHandler(s.logRequests(mux), "evaluator.api",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Start serves in the background. Listener failures are logged.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "api server stopped", "addr", s.http.Addr, "error", err)
		}
	}()
	s.logger.Info(ctx, "api server started", "addr", s.http.Addr)
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the hijacker for websockets.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		args := []any{"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start)}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn(r.Context(), "request failed", args...)
			return
		}
		s.logger.Debug(r.Context(), "request served", args...)
	})
}
