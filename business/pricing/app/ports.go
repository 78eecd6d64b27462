// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// PriceSource fetches last-traded prices from one exchange.
type PriceSource interface {
	// Exchange identifies the venue this source serves.
	Exchange() domain.Exchange

	// FetchPrice returns the validated last price for an exchange-formatted pair
	// such as "JASMYUSDT" or "JASMY_USDT".
	FetchPrice(ctx context.Context, pair string) (decimal.Decimal, error)
}

// RouteQuoter quotes on-chain swap and bridge routes.
type RouteQuoter interface {
	Quote(ctx context.Context, req domain.RouteQuoteRequest) (*domain.RouteQuote, error)
}
