// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
)

// Reporter defines the interface for reporting evaluations.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report sends an evaluation to be displayed/logged.
	Report(report *domain.Report)

	// UpdateQuotes updates the current price display.
	UpdateQuotes(quotes ...*pricing.Quote)

	// UpdateConnectionStatus updates an exchange's reachability display.
	UpdateConnectionStatus(name string, connected bool, latency time.Duration)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// AdvisoryGenerator produces free-text commentary for an evaluation.
type AdvisoryGenerator interface {
	Generate(ctx context.Context, evalCtx domain.EvaluationContext) (string, error)
}

// Archive persists reports for later inspection.
type Archive interface {
	Store(ctx context.Context, report *domain.Report) error
}

// PriceQuoter fetches a live price for one exchange pair.
type PriceQuoter interface {
	GetPrice(ctx context.Context, exchange pricing.Exchange, rawAsset, counterpart string) (*pricing.Quote, error)
}

// AssetRecorder remembers assets seen on an exchange.
type AssetRecorder interface {
	AddAsset(ctx context.Context, exchange pricing.Exchange, rawAsset string) error
}

// NetworkResolver decides whether an asset can move between two exchanges.
type NetworkResolver interface {
	Resolve(ctx context.Context, symbol asset.Symbol, source, destination pricing.Exchange) network.CompatibilityResult
}
