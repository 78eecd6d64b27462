// Package lifi quotes swap and bridge routes through the Li.Fi aggregator API.
package lifi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/app"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/httpclient"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

const (
	tracerName = "github.com/fd1az/arbitrage-evaluator/business/pricing/infra/lifi"

	DefaultBaseURL    = "https://li.quest"
	DefaultIntegrator = "jumper.exchange"

	quoteEndpoint = "/v1/quote"
)

// Config configures the quoter.
type Config struct {
	BaseURL    string
	Integrator string
	Timeout    time.Duration
	// FromAddress is the wallet the aggregator simulates the route for.
	// Empty leaves the parameter out.
	FromAddress string
}

type quoteResponse struct {
	Tool     string `json:"tool"`
	Estimate struct {
		FromAmount  string `json:"fromAmount"`
		ToAmount    string `json:"toAmount"`
		ToAmountMin string `json:"toAmountMin"`
	} `json:"estimate"`
	Action struct {
		ToToken struct {
			Decimals uint8  `json:"decimals"`
			Symbol   string `json:"symbol"`
		} `json:"toToken"`
	} `json:"action"`
}

// Quoter implements app.RouteQuoter.
type Quoter struct {
	client      httpclient.Client
	tokens      *asset.Registry
	integrator  string
	fromAddress string
	logger      logger.LoggerInterface
	tracer      trace.Tracer
}

var _ app.RouteQuoter = (*Quoter)(nil)

// NewQuoter creates a Li.Fi quoter resolving token symbols through tokens.
func NewQuoter(cfg Config, tokens *asset.Registry, log logger.LoggerInterface) (*Quoter, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	integrator := cfg.Integrator
	if integrator == "" {
		integrator = DefaultIntegrator
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	if cfg.FromAddress != "" && !common.IsHexAddress(cfg.FromAddress) {
		return nil, apperror.Validation(apperror.CodeInvalidTokenAddress, "from address "+cfg.FromAddress)
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("lifi"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Quoter{
		client:      client,
		tokens:      tokens,
		integrator:  integrator,
		fromAddress: cfg.FromAddress,
		logger:      log,
		tracer:      tracer,
	}, nil
}

// Quote implements app.RouteQuoter.
func (q *Quoter) Quote(ctx context.Context, req domain.RouteQuoteRequest) (*domain.RouteQuote, error) {
	ctx, span := q.tracer.Start(ctx, "lifi.http.get_quote",
		trace.WithAttributes(
			attribute.Int64("from_chain", int64(req.FromChain)),
			attribute.Int64("to_chain", int64(req.ToChain)),
			attribute.String("from_token", req.FromToken),
			attribute.String("to_token", req.ToToken),
		),
	)
	defer span.End()

	if req.FromChain == 0 {
		req.FromChain = asset.ChainIDEthereum
	}
	if req.ToChain == 0 {
		req.ToChain = req.FromChain
	}

	from, err := q.tokens.Resolve(req.FromChain, req.FromToken)
	if err != nil {
		return nil, err
	}
	to, err := q.tokens.Resolve(req.ToChain, req.ToToken)
	if err != nil {
		return nil, err
	}

	fromAmount, err := from.ToBaseUnits(req.Amount)
	if err != nil {
		return nil, err
	}

	r := q.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "quote")),
		httpclient.WithResponseErrorHandler(httpclient.StatusErrorHandler("lifi", apperror.CodeRouteQuoteFailed)),
	).
		SetQueryParam("fromChain", strconv.FormatUint(req.FromChain, 10)).
		SetQueryParam("toChain", strconv.FormatUint(req.ToChain, 10)).
		SetQueryParam("fromToken", from.Address.Hex()).
		SetQueryParam("toToken", to.Address.Hex()).
		SetQueryParam("fromAmount", fromAmount.String()).
		SetQueryParam("integrator", q.integrator)
	if q.fromAddress != "" {
		r.SetQueryParam("fromAddress", common.HexToAddress(q.fromAddress).Hex())
	}

	resp, err := r.Get(ctx, quoteEndpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote failed")
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeRouteQuoteFailed, "li.fi unreachable", err)
	}

	var body quoteResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, apperror.New(apperror.CodeRouteQuoteFailed, apperror.WithCause(err), apperror.WithContext("malformed quote"))
	}

	toAmount, ok := new(big.Int).SetString(body.Estimate.ToAmount, 10)
	if !ok {
		return nil, apperror.New(apperror.CodeRouteQuoteFailed, apperror.WithContext("quote without toAmount"))
	}
	toAmountMin, ok := new(big.Int).SetString(body.Estimate.ToAmountMin, 10)
	if !ok {
		toAmountMin = new(big.Int).Set(toAmount)
	}

	// The aggregator knows decimals for arbitrary addresses; prefer them.
	if body.Action.ToToken.Decimals != 0 {
		to.Decimals = body.Action.ToToken.Decimals
	}

	quote := &domain.RouteQuote{
		FromToken:   from,
		ToToken:     to,
		FromAmount:  fromAmount,
		ToAmount:    toAmount,
		ToAmountMin: toAmountMin,
		Output:      to.FromBaseUnits(toAmount),
		Tool:        body.Tool,
		Raw:         json.RawMessage(resp.Body()),
	}

	q.logger.Debug(ctx, "route quoted",
		"from", from.String(), "to", to.String(),
		"amount_in", req.Amount.String(), "amount_out", quote.Output.String(), "tool", body.Tool)

	return quote, nil
}
