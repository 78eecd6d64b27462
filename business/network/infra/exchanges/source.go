// Package exchanges reads deposit and withdrawal networks from the
// exchanges' public currency endpoints.
package exchanges

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbitrage-evaluator/business/network/app"
	"github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/cache"
	"github.com/fd1az/arbitrage-evaluator/internal/circuitbreaker"
	"github.com/fd1az/arbitrage-evaluator/internal/httpclient"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/arbitrage-evaluator/business/network/infra/exchanges"

	defaultCacheTTL     = 5 * time.Minute
	defaultTimeout      = 10 * time.Second
	defaultRequestsPerM = 60
	mexcRecvWindow      = "5000"
)

// Endpoint configures one exchange's currency API.
type Endpoint struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	APIKey            string
	APISecret         string
}

// Config configures the Source. Exchanges missing from Endpoints use the
// public hosts.
type Config struct {
	Endpoints map[pricing.Exchange]Endpoint
	CacheTTL  time.Duration
}

var defaultBaseURLs = map[pricing.Exchange]string{
	pricing.MEXC:     "https://api.mexc.com",
	pricing.Bitmart:  "https://api-cloud.bitmart.com",
	pricing.GateIO:   "https://api.gateio.ws",
	pricing.Poloniex: "https://api.poloniex.com",
}

type restEndpoint struct {
	path  string
	parse func([]byte) (currencyTable, error)
}

var restEndpoints = map[pricing.Exchange]restEndpoint{
	pricing.MEXC:     {"/api/v3/capital/config/getall", parseMEXC},
	pricing.Bitmart:  {"/spot/v1/currencies", parseBitmart},
	pricing.GateIO:   {"/api/v4/spot/currencies", parseGateIO},
	pricing.Poloniex: {"/currencies", parsePoloniex},
}

type fetchFunc func(ctx context.Context) (currencyTable, error)

// Source implements app.NetworkSource. Each exchange's full currency list is
// fetched once per TTL and shared by every asset lookup.
type Source struct {
	fetchers map[pricing.Exchange]fetchFunc
	breakers map[pricing.Exchange]*circuitbreaker.CircuitBreaker[currencyTable]
	limits   *ratelimit.Group
	tables   *cache.Cache[pricing.Exchange, currencyTable]
	ttl      time.Duration
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	now      func() time.Time
}

var _ app.NetworkSource = (*Source)(nil)

// NewSource builds fetchers for every supported exchange.
func NewSource(cfg Config, log logger.LoggerInterface) (*Source, error) {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	perExchange := make(map[string]int)
	for ex, ep := range cfg.Endpoints {
		if ep.RequestsPerMinute > 0 {
			perExchange[ex.Slug()] = ep.RequestsPerMinute
		}
	}

	s := &Source{
		limits:   ratelimit.NewGroup(defaultRequestsPerM, perExchange),
		fetchers: make(map[pricing.Exchange]fetchFunc),
		breakers: make(map[pricing.Exchange]*circuitbreaker.CircuitBreaker[currencyTable]),
		tables:   cache.New[pricing.Exchange, currencyTable](time.Minute),
		ttl:      ttl,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}

	for ex, ep := range restEndpoints {
		f, err := s.restFetcher(ex, ep, cfg.Endpoints[ex])
		if err != nil {
			return nil, err
		}
		s.fetchers[ex] = f
	}
	s.fetchers[pricing.Binance] = newBinanceFetcher(cfg.Endpoints[pricing.Binance])

	for ex := range s.fetchers {
		cbCfg := circuitbreaker.DefaultConfig(ex.Slug() + "-currencies")
		cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Info(context.Background(), "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		}
		s.breakers[ex] = circuitbreaker.New[currencyTable](cbCfg)
	}

	return s, nil
}

// AssetNetworks implements app.NetworkSource.
func (s *Source) AssetNetworks(ctx context.Context, exchange pricing.Exchange, symbol asset.Symbol) (domain.NetworkSet, error) {
	fetch, ok := s.fetchers[exchange]
	if !ok {
		return domain.NetworkSet{}, apperror.UnknownExchange(string(exchange))
	}

	table, ok := s.tables.Get(ctx, exchange)
	if !ok {
		ctx, span := s.tracer.Start(ctx, exchange.Slug()+".http.get_currencies",
			trace.WithAttributes(attribute.String("exchange", string(exchange))))
		defer span.End()

		if err := s.limits.Wait(ctx, exchange.Slug()); err != nil {
			span.RecordError(err)
			return domain.NetworkSet{}, err
		}

		var err error
		table, err = s.breakers[exchange].Execute(func() (currencyTable, error) {
			return fetch(ctx)
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "currency fetch failed")
			return domain.NetworkSet{}, err
		}
		s.tables.Set(ctx, exchange, table, s.ttl)
		s.logger.Debug(ctx, "currency networks refreshed", "exchange", exchange, "currencies", len(table))
	}

	set, ok := table[symbol.String()]
	if !ok {
		return domain.NetworkSet{Deposit: []string{}, Withdrawal: []string{}}, nil
	}
	return set, nil
}

func (s *Source) restFetcher(exchange pricing.Exchange, ep restEndpoint, cfg Endpoint) (fetchFunc, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[exchange]
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	headers := map[string]string{"Accept": "application/json"}
	if exchange == pricing.MEXC && cfg.APIKey != "" {
		headers["X-MEXC-APIKEY"] = cfg.APIKey
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(exchange.Slug()),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(s.tracer),
		httpclient.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return func(ctx context.Context) (currencyTable, error) {
		path := ep.path
		if exchange == pricing.MEXC && cfg.APISecret != "" {
			path += "?" + signMEXC(cfg.APISecret, s.now())
		}

		resp, err := client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "currencies")),
			httpclient.WithHeadersLogConfig(true, "X-MEXC-APIKEY"),
			httpclient.WithResponseErrorHandler(
				httpclient.StatusErrorHandler(string(exchange), apperror.CodeExchangeAPIError)),
		).Get(ctx, path)
		if err != nil {
			if apperror.IsAppError(err) {
				return nil, err
			}
			return nil, apperror.New(apperror.CodeExchangeUnreachable,
				apperror.WithCause(err),
				apperror.WithContext(string(exchange)+" currencies"))
		}
		return ep.parse(resp.Body())
	}, nil
}

// signMEXC returns the signed query for a MEXC private GET:
// timestamp and recvWindow, then an HMAC-SHA256 signature over them.
func signMEXC(secret string, now time.Time) string {
	query := "recvWindow=" + mexcRecvWindow + "&timestamp=" + strconv.FormatInt(now.UnixMilli(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return query + "&signature=" + hex.EncodeToString(mac.Sum(nil))
}
