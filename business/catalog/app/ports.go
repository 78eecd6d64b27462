package app

import (
	"context"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// Store is the durable per-exchange asset list. Put replaces the whole value.
// Implementations report failures as PERSISTENCE_FAILED.
type Store interface {
	Get(ctx context.Context, exchange pricing.Exchange) ([]string, error)
	Put(ctx context.Context, exchange pricing.Exchange, assets []string) error
}

// Locker serializes catalog writes per exchange. The returned func releases
// the lock and is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, exchange pricing.Exchange) (unlock func(), err error)
}
