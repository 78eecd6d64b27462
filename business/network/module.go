// Package network implements the transfer network compatibility context.
package network

import (
	"context"

	"github.com/fd1az/arbitrage-evaluator/business/network/app"
	networkDI "github.com/fd1az/arbitrage-evaluator/business/network/di"
	"github.com/fd1az/arbitrage-evaluator/business/network/infra/exchanges"
	"github.com/fd1az/arbitrage-evaluator/business/network/infra/simulated"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/config"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/monolith"
	"github.com/fd1az/arbitrage-evaluator/internal/retry"
)

// Module implements the network bounded context.
type Module struct{}

// RegisterServices registers all network services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, networkDI.Source, func(sr di.ServiceRegistry) app.NetworkSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.Network.Source != "exchanges" {
			return simulated.NewSource()
		}

		endpoint := func(e config.ExchangeEndpoint) exchanges.Endpoint {
			return exchanges.Endpoint{
				BaseURL:           e.BaseURL,
				Timeout:           e.Timeout,
				RequestsPerMinute: e.RequestsPerMinute,
				APIKey:            e.APIKey,
				APISecret:         e.APISecret,
			}
		}
		src, err := exchanges.NewSource(exchanges.Config{
			Endpoints: map[pricing.Exchange]exchanges.Endpoint{
				pricing.MEXC:     endpoint(cfg.Exchanges.MEXC),
				pricing.Bitmart:  endpoint(cfg.Exchanges.Bitmart),
				pricing.GateIO:   endpoint(cfg.Exchanges.GateIO),
				pricing.Poloniex: endpoint(cfg.Exchanges.Poloniex),
				pricing.Binance:  endpoint(cfg.Exchanges.Binance),
			},
			CacheTTL: cfg.Network.CacheTTL,
		}, log)
		if err != nil {
			panic("failed to create network source: " + err.Error())
		}
		return src
	})

	// Register Resolver (public - exposed to other modules)
	di.RegisterToken(c, networkDI.Resolver, func(sr di.ServiceRegistry) *app.Resolver {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewResolver(networkDI.GetSource(sr), log,
			retry.WithMaxAttempts(cfg.Network.MaxAttempts),
			retry.WithExponentialBackoff(cfg.Network.BaseBackoff),
		)
	})

	return nil
}

// Startup logs which network source is active.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	source := mono.Config().Network.Source
	if source == "" {
		source = "simulated"
	}
	mono.Logger().Info(ctx, "network module started", "source", source)
	return nil
}
