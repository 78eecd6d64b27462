package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/cache"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

// PricingService dispatches price lookups to the per-exchange sources.
type PricingService struct {
	sources  map[domain.Exchange]PriceSource
	router   RouteQuoter
	quotes   *cache.Cache[string, domain.Quote]
	quoteTTL time.Duration
	logger   logger.LoggerInterface
	now      func() time.Time
}

// NewPricingService creates a PricingService. A zero quoteTTL disables caching.
func NewPricingService(sources []PriceSource, router RouteQuoter, quoteTTL time.Duration, log logger.LoggerInterface) *PricingService {
	bySource := make(map[domain.Exchange]PriceSource, len(sources))
	for _, s := range sources {
		bySource[s.Exchange()] = s
	}

	return &PricingService{
		sources:  bySource,
		router:   router,
		quotes:   cache.New[string, domain.Quote](time.Minute),
		quoteTTL: quoteTTL,
		logger:   log,
		now:      time.Now,
	}
}

// GetPrice returns the current price of asset against counterpart on exchange.
// Failures surface as errors: no stale or zero price is ever substituted.
func (s *PricingService) GetPrice(ctx context.Context, exchange domain.Exchange, rawAsset, counterpart string) (*domain.Quote, error) {
	source, ok := s.sources[exchange]
	if !ok {
		return nil, apperror.UnknownExchange(string(exchange))
	}

	pair, err := domain.FormatPair(exchange, rawAsset, counterpart)
	if err != nil {
		return nil, err
	}

	key := string(exchange) + ":" + pair
	if s.quoteTTL > 0 {
		if q, ok := s.quotes.Get(ctx, key); ok {
			return &q, nil
		}
	}

	price, err := source.FetchPrice(ctx, pair)
	if err != nil {
		s.logger.Warn(ctx, "price fetch failed", "exchange", exchange, "pair", pair, "error", err)
		return nil, err
	}

	base, quote := splitPair(rawAsset, counterpart)
	q := domain.Quote{
		Exchange:    exchange,
		Asset:       base,
		Counterpart: quote,
		Pair:        pair,
		Price:       price,
		FetchedAt:   s.now(),
	}

	if s.quoteTTL > 0 {
		s.quotes.Set(ctx, key, q, s.quoteTTL)
	}

	s.logger.Debug(ctx, "price fetched", "exchange", exchange, "pair", pair, "price", price.String())
	return &q, nil
}

// GetQuotes fetches every request concurrently. The first failure cancels the
// rest and is returned; results keep request order.
func (s *PricingService) GetQuotes(ctx context.Context, reqs ...domain.QuoteRequest) ([]*domain.Quote, error) {
	out := make([]*domain.Quote, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range reqs {
		g.Go(func() error {
			q, err := s.GetPrice(gctx, r.Exchange, r.Asset, r.Counterpart)
			if err != nil {
				return fmt.Errorf("%s %s: %w", r.Exchange, r.Asset, err)
			}
			out[i] = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// QuoteRoute asks the on-chain route aggregator for a swap quote.
func (s *PricingService) QuoteRoute(ctx context.Context, req domain.RouteQuoteRequest) (*domain.RouteQuote, error) {
	if s.router == nil {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithContext("route quoter not configured"))
	}
	return s.router.Quote(ctx, req)
}

// Exchanges lists the exchanges with a configured source.
func (s *PricingService) Exchanges() []domain.Exchange {
	out := make([]domain.Exchange, 0, len(s.sources))
	for _, ex := range domain.Exchanges() {
		if _, ok := s.sources[ex]; ok {
			out = append(out, ex)
		}
	}
	return out
}

func splitPair(rawAsset, counterpart string) (string, string) {
	base, _ := asset.Normalize(rawAsset)
	quote := strings.ToUpper(strings.TrimSpace(counterpart))
	if quote == "" {
		quote = domain.DefaultCounterpart
	}
	return string(base), quote
}
