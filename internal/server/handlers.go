package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	arbitrage "github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	arbitrageDomain "github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

const maxBodyBytes = 1 << 20

type marketPriceRequest struct {
	Exchange    string `json:"exchange"`
	Asset       string `json:"asset"`
	Counterpart string `json:"counterpart"`
}

type exchangeAssetRequest struct {
	Exchange string `json:"exchange"`
	Asset    string `json:"asset"`
}

type networkAnalysisRequest struct {
	Asset               string `json:"asset"`
	SourceExchange      string `json:"sourceExchange"`
	DestinationExchange string `json:"destinationExchange"`
}

type evaluateRequest struct {
	Mode      int              `json:"mode"`
	AssetA    string           `json:"assetA"`
	ExchangeA string           `json:"exchangeA"`
	PriceA    *decimal.Decimal `json:"priceA"`
	FeeA      decimal.Decimal  `json:"feeA"`
	AssetB    string           `json:"assetB"`
	ExchangeB string           `json:"exchangeB"`
	PriceB    *decimal.Decimal `json:"priceB"`
	FeeB      decimal.Decimal  `json:"feeB"`
	Capital   decimal.Decimal  `json:"capital"`
	Advisory  bool             `json:"advisory"`
}

type dexQuoteRequest struct {
	FromChain uint64          `json:"fromChain"`
	ToChain   uint64          `json:"toChain"`
	FromToken string          `json:"fromToken"`
	ToToken   string          `json:"toToken"`
	Amount    decimal.Decimal `json:"amount"`
}

type parityRequest struct {
	ReferencePrice decimal.Decimal `json:"referencePrice"`
	Factor         decimal.Decimal `json:"factor"`
	DirectPrice    decimal.Decimal `json:"directPrice"`
}

type fixedFeeSwapRequest struct {
	AssetA        string           `json:"assetA"`
	ExchangeA     string           `json:"exchangeA"`
	PriceA        decimal.Decimal  `json:"priceA"`
	FeeA          decimal.Decimal  `json:"feeA"`
	AssetB        string           `json:"assetB"`
	ExchangeB     string           `json:"exchangeB"`
	PriceB        decimal.Decimal  `json:"priceB"`
	FeeB          decimal.Decimal  `json:"feeB"`
	Capital       decimal.Decimal  `json:"capital"`
	FixedFeeUnits *decimal.Decimal `json:"fixedFeeUnits"`
	Factor        decimal.Decimal  `json:"factor"`
}

func (s *Server) handleMarketPrice(w http.ResponseWriter, r *http.Request) {
	var req marketPriceRequest
	if !s.decode(w, r, &req) {
		return
	}
	exchange, err := pricing.ParseExchange(req.Exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	quote, err := s.deps.Prices.GetPrice(r.Context(), exchange, req.Asset, req.Counterpart)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"price": quote.Price})
}

func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req exchangeAssetRequest
	if !s.decode(w, r, &req) {
		return
	}
	exchange, err := pricing.ParseExchange(req.Exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Catalog.AddAsset(r.Context(), exchange, req.Asset); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleExchangeAssets(w http.ResponseWriter, r *http.Request) {
	var req exchangeAssetRequest
	if !s.decode(w, r, &req) {
		return
	}
	exchange, err := pricing.ParseExchange(req.Exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	assets, err := s.deps.Catalog.GetAssets(r.Context(), exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": asset.SortedStrings(assets)})
}

func (s *Server) handleNetworkAnalysis(w http.ResponseWriter, r *http.Request) {
	var req networkAnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}
	symbol, err := asset.Normalize(req.Asset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	source, err := pricing.ParseExchange(req.SourceExchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	destination, err := pricing.ParseExchange(req.DestinationExchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.deps.Networks.Resolve(r.Context(), symbol, source, destination))
}

func (s *Server) handleMainNetwork(w http.ResponseWriter, r *http.Request) {
	var req exchangeAssetRequest
	if !s.decode(w, r, &req) {
		return
	}
	exchange, err := pricing.ParseExchange(req.Exchange)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	symbol, err := asset.Normalize(req.Asset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mainNet, err := s.deps.Networks.MainNetwork(r.Context(), exchange, symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mainNetwork": mainNet})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !s.decode(w, r, &req) {
		return
	}

	report, err := s.deps.Evaluator.Run(r.Context(), arbitrage.Request{
		Mode: req.Mode,
		LegA: arbitrage.LegRequest{
			Exchange:   req.ExchangeA,
			Asset:      req.AssetA,
			Price:      req.PriceA,
			FeePercent: req.FeeA,
		},
		LegB: arbitrage.LegRequest{
			Exchange:   req.ExchangeB,
			Asset:      req.AssetB,
			Price:      req.PriceB,
			FeePercent: req.FeeB,
		},
		Capital:  req.Capital,
		Advisory: req.Advisory,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleInvestmentAnalysis(w http.ResponseWriter, r *http.Request) {
	var req arbitrageDomain.EvaluationContext
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.AssetA) == "" || req.ExchangeA == "" || req.ExchangeB == "" {
		s.writeError(w, r, apperror.Validation(apperror.CodeRequiredField, "assetA, exchangeA and exchangeB are required"))
		return
	}

	commentary, err := s.deps.Advisor.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"commentary": commentary})
}

func (s *Server) handleDEXQuote(w http.ResponseWriter, r *http.Request) {
	var req dexQuoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.FromChain == 0 || req.ToChain == 0 || req.FromToken == "" || req.ToToken == "" {
		s.writeError(w, r, apperror.Validation(apperror.CodeRequiredField, "fromChain, toChain, fromToken and toToken are required"))
		return
	}
	if !req.Amount.IsPositive() {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "amount must be positive"))
		return
	}

	quote, err := s.deps.Prices.QuoteRoute(r.Context(), pricing.RouteQuoteRequest{
		FromChain: req.FromChain,
		ToChain:   req.ToChain,
		FromToken: req.FromToken,
		ToToken:   req.ToToken,
		Amount:    req.Amount,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(quote.Raw) > 0 {
		writeJSON(w, http.StatusOK, quote.Raw)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleParity(w http.ResponseWriter, r *http.Request) {
	var req parityRequest
	if !s.decode(w, r, &req) {
		return
	}

	parity := s.deps.Calculator.Parity(req.ReferencePrice, req.Factor, req.DirectPrice)
	if parity == nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "referencePrice, factor and directPrice must be positive"))
		return
	}
	writeJSON(w, http.StatusOK, parity)
}

func (s *Server) handleFixedFeeSwap(w http.ResponseWriter, r *http.Request) {
	var req fixedFeeSwapRequest
	if !s.decode(w, r, &req) {
		return
	}

	legA, err := swapLeg(req.ExchangeA, req.AssetA, req.PriceA, req.FeeA)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	legB, err := swapLeg(req.ExchangeB, req.AssetB, req.PriceB, req.FeeB)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	units := arbitrageDomain.DefaultFixedFeeUnits
	if req.FixedFeeUnits != nil {
		units = *req.FixedFeeUnits
	}

	route := arbitrageDomain.Route{LegA: legA, LegB: legB, Capital: req.Capital}
	result := s.deps.Calculator.FixedFeeSwap(route, units, req.Factor)
	if result == nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidRoute, "route is not evaluable"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func swapLeg(rawExchange, rawAsset string, price, fee decimal.Decimal) (arbitrageDomain.Leg, error) {
	exchange, err := pricing.ParseExchange(rawExchange)
	if err != nil {
		return arbitrageDomain.Leg{}, err
	}
	symbol, err := asset.Normalize(rawAsset)
	if err != nil {
		return arbitrageDomain.Leg{}, err
	}
	return arbitrageDomain.Leg{Exchange: exchange, Asset: symbol, Price: price, FeePercent: fee}, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidFormat, "malformed JSON body: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.Wrap(err, apperror.CodeInternalError, r.URL.Path)
	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		appErr.WithTraceID(sc.TraceID().String())
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request error", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, appErr.StatusCode, appErr.ToResponse())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
