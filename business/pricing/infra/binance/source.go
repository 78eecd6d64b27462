// Package binance implements the Binance ticker price source on top of go-binance.
package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gbinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/app"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/circuitbreaker"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/arbitrage-evaluator/business/pricing/infra/binance"

	// BaseAPIURL is the public REST host.
	BaseAPIURL = "https://api.binance.com"

	invalidSymbolCode = -1121
	httpTimeout       = 7 * time.Second
)

// Config holds configuration for the Binance source.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Source serves Binance spot prices. Only public endpoints are used, so the
// client carries no credentials.
type Source struct {
	client  *gbinance.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[decimal.Decimal]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
}

var _ app.PriceSource = (*Source)(nil)

// NewSource creates a Binance price source.
func NewSource(cfg Config, log logger.LoggerInterface) *Source {
	client := gbinance.NewClient("", "")
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpTimeout
	}
	client.HTTPClient = &http.Client{Timeout: timeout}

	cbCfg := circuitbreaker.DefaultConfig("binance-ticker")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &Source{
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		cb:      circuitbreaker.New[decimal.Decimal](cbCfg),
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}
}

// Exchange implements app.PriceSource.
func (s *Source) Exchange() domain.Exchange {
	return domain.Binance
}

// FetchPrice implements app.PriceSource.
func (s *Source) FetchPrice(ctx context.Context, pair string) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "binance.http.list_prices",
		trace.WithAttributes(attribute.String("symbol", pair)),
	)
	defer span.End()

	if err := s.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	price, err := s.cb.Execute(func() (decimal.Decimal, error) {
		prices, err := s.client.NewListPricesService().Symbol(pair).Do(ctx)
		if err != nil {
			return decimal.Zero, mapError(pair, err)
		}
		if len(prices) == 0 {
			return decimal.Zero, apperror.UnknownPair("Binance: " + pair)
		}
		return domain.ValidatePrice(domain.Binance, prices[0].Price)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list prices failed")
		return decimal.Zero, err
	}

	s.logger.Debug(ctx, "fetched ticker", "exchange", domain.Binance, "pair", pair, "price", price.String())
	return price, nil
}

func mapError(pair string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == invalidSymbolCode {
			return apperror.UnknownPair(fmt.Sprintf("Binance %s: %s", pair, apiErr.Message))
		}
		return apperror.New(apperror.CodeExchangeAPIError,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("Binance %s: code %d", pair, apiErr.Code)))
	}
	return apperror.New(apperror.CodeExchangeUnreachable,
		apperror.WithCause(err),
		apperror.WithContext("Binance "+pair))
}
