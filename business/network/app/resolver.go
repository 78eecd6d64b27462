// Package app resolves whether an asset can be transferred between exchanges.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fd1az/arbitrage-evaluator/business/network/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/retry"
)

// Resolver intersects the source's withdrawal networks with the
// destination's deposit networks.
type Resolver struct {
	source    NetworkSource
	logger    logger.LoggerInterface
	retryOpts []retry.Option
}

// NewResolver creates a Resolver. Every lookup runs under retry.Execute with
// the default transient-only policy plus opts.
func NewResolver(source NetworkSource, log logger.LoggerInterface, opts ...retry.Option) *Resolver {
	r := &Resolver{source: source, logger: log}
	r.retryOpts = append([]retry.Option{
		retry.WithOnRetry(func(failures int, delay time.Duration, err error) {
			log.Warn(context.Background(), "network lookup retry", "failures", failures, "delay", delay, "error", err)
		}),
	}, opts...)
	return r
}

// Resolve never returns an error: a failed lookup degrades to an incompatible
// result whose reasoning carries the cause.
func (r *Resolver) Resolve(ctx context.Context, symbol asset.Symbol, source, destination pricing.Exchange) domain.CompatibilityResult {
	if source == destination {
		return domain.SameExchange()
	}

	var withdrawal, deposit []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := r.lookup(gctx, source, symbol)
		withdrawal = set.Withdrawal
		return err
	})
	g.Go(func() error {
		set, err := r.lookup(gctx, destination, symbol)
		deposit = set.Deposit
		return err
	})

	if err := g.Wait(); err != nil {
		r.logger.Warn(ctx, "network lookup failed",
			"asset", symbol, "source", source, "destination", destination, "error", err)
		return domain.LookupFailed(err)
	}

	result := domain.Compatibility(withdrawal, deposit)
	r.logger.Debug(ctx, "network compatibility resolved",
		"asset", symbol, "source", source, "destination", destination,
		"compatible", result.IsCompatible, "common", result.CommonNetworks)
	return result
}

// MainNetwork returns the network an exchange would most likely use for
// symbol: its first withdrawal network, else its first deposit network.
// An empty string means nothing is known.
func (r *Resolver) MainNetwork(ctx context.Context, exchange pricing.Exchange, symbol asset.Symbol) (string, error) {
	set, err := r.lookup(ctx, exchange, symbol)
	if err != nil {
		return "", err
	}
	return set.Main(), nil
}

// Networks returns the raw sets for exchange and symbol.
func (r *Resolver) Networks(ctx context.Context, exchange pricing.Exchange, symbol asset.Symbol) (domain.NetworkSet, error) {
	return r.lookup(ctx, exchange, symbol)
}

func (r *Resolver) lookup(ctx context.Context, exchange pricing.Exchange, symbol asset.Symbol) (domain.NetworkSet, error) {
	return retry.Execute(ctx, func(ctx context.Context) (domain.NetworkSet, error) {
		return r.source.AssetNetworks(ctx, exchange, symbol)
	}, r.retryOpts...)
}
