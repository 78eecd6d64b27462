// Package rest implements ticker price sources over the exchanges' public REST APIs.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/app"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/circuitbreaker"
	"github.com/fd1az/arbitrage-evaluator/internal/httpclient"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/arbitrage-evaluator/business/pricing/infra/rest"
	meterName  = "github.com/fd1az/arbitrage-evaluator/business/pricing/infra/rest"

	defaultTimeout = 7 * time.Second
)

// Default public API hosts.
var DefaultBaseURLs = map[domain.Exchange]string{
	domain.MEXC:     "https://api.mexc.com",
	domain.Bitmart:  "https://api-cloud.bitmart.com",
	domain.GateIO:   "https://api.gateio.ws",
	domain.Poloniex: "https://api.poloniex.com",
}

// Config configures one exchange source.
type Config struct {
	Exchange          domain.Exchange
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

type sourceMetrics struct {
	fetches  metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// Source fetches ticker prices for one exchange.
type Source struct {
	exchange domain.Exchange
	endpoint tickerEndpoint
	client   httpclient.Client
	limiter  *ratelimit.Limiter
	cb       *circuitbreaker.CircuitBreaker[decimal.Decimal]
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	metrics  *sourceMetrics
}

var _ app.PriceSource = (*Source)(nil)

// NewSource creates a price source for cfg.Exchange.
func NewSource(cfg Config, log logger.LoggerInterface) (*Source, error) {
	endpoint, ok := tickerEndpoints[cfg.Exchange]
	if !ok {
		return nil, apperror.UnknownExchange(string(cfg.Exchange))
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURLs[cfg.Exchange]
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(cfg.Exchange.Slug()),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	s := &Source{
		exchange: cfg.Exchange,
		endpoint: endpoint,
		client:   client,
		limiter:  ratelimit.New(cfg.RequestsPerMinute),
		logger:   log,
		tracer:   tracer,
	}

	cbCfg := circuitbreaker.DefaultConfig(cfg.Exchange.Slug() + "-ticker")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	s.cb = circuitbreaker.New[decimal.Decimal](cbCfg)

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return s, nil
}

func (s *Source) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &sourceMetrics{}

	s.metrics.fetches, err = meter.Int64Counter(
		"price_fetches_total",
		metric.WithDescription("Ticker price fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	s.metrics.failures, err = meter.Int64Counter(
		"price_fetch_failures_total",
		metric.WithDescription("Failed ticker price fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	s.metrics.latency, err = meter.Float64Histogram(
		"price_fetch_duration_seconds",
		metric.WithDescription("Ticker fetch latency"),
		metric.WithUnit("s"),
	)
	return err
}

// Exchange implements app.PriceSource.
func (s *Source) Exchange() domain.Exchange {
	return s.exchange
}

// FetchPrice implements app.PriceSource.
func (s *Source) FetchPrice(ctx context.Context, pair string) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, s.exchange.Slug()+".http.get_ticker",
		trace.WithAttributes(
			attribute.String("exchange", string(s.exchange)),
			attribute.String("pair", pair),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("exchange", s.exchange.Slug()))
	start := time.Now()

	if err := s.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}

	price, err := s.cb.Execute(func() (decimal.Decimal, error) {
		return s.fetch(ctx, pair)
	})

	s.metrics.fetches.Add(ctx, 1, attrs)
	s.metrics.latency.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		s.metrics.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("exchange", s.exchange.Slug()),
			attribute.String("code", string(apperror.GetCode(err))),
		))
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticker fetch failed")
		return decimal.Zero, err
	}

	span.SetAttributes(attribute.String("price", price.String()))
	return price, nil
}

func (s *Source) fetch(ctx context.Context, pair string) (decimal.Decimal, error) {
	path, query := s.endpoint(pair)

	req := s.client.NewRequestWithOptions(
		httpclient.WithLabels(
			httpclient.NewLabel("endpoint", "ticker"),
		),
		httpclient.WithResponseErrorHandler(tickerErrorHandler(s.exchange)),
	)
	for k, v := range query {
		req.SetQueryParam(k, v)
	}

	resp, err := req.Get(ctx, path)
	if err != nil {
		if apperror.IsAppError(err) {
			return decimal.Zero, err
		}
		return decimal.Zero, apperror.New(apperror.CodeExchangeUnreachable,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s ticker %s", s.exchange, pair)))
	}

	price, err := domain.ParsePrice(s.exchange, resp.Body())
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Debug(ctx, "fetched ticker", "exchange", s.exchange, "pair", pair, "price", price.String())
	return price, nil
}

// tickerErrorHandler intercepts throttling and server-side failures. Other 4xx
// bodies carry exchange error codes and are left to domain.ParsePrice.
func tickerErrorHandler(exchange domain.Exchange) httpclient.ResponseErrorHandler {
	statusErr := httpclient.StatusErrorHandler(string(exchange), apperror.CodeExchangeUnreachable)
	return func(statusCode int, body []byte) error {
		if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
			return statusErr(statusCode, body)
		}
		return nil
	}
}
