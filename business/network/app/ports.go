package app

import (
	"context"

	"github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

// NetworkSource reports the deposit and withdrawal networks of an asset on an
// exchange. Unlisted assets yield empty sets, not errors. Temporary upstream
// failures are SERVICE_UNAVAILABLE so the resolver can retry them.
type NetworkSource interface {
	AssetNetworks(ctx context.Context, exchange pricing.Exchange, symbol asset.Symbol) (domain.NetworkSet, error)
}
