// Package pricing implements the pricing bounded context: exchange ticker
// prices and DEX route quotes.
package pricing

import (
	"context"

	"github.com/fd1az/arbitrage-evaluator/business/pricing/app"
	pricingDI "github.com/fd1az/arbitrage-evaluator/business/pricing/di"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/infra/binance"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/infra/lifi"
	"github.com/fd1az/arbitrage-evaluator/business/pricing/infra/rest"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/config"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pricingDI.PriceSources, func(sr di.ServiceRegistry) []app.PriceSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		restEndpoints := map[domain.Exchange]config.ExchangeEndpoint{
			domain.MEXC:     cfg.Exchanges.MEXC,
			domain.Bitmart:  cfg.Exchanges.Bitmart,
			domain.GateIO:   cfg.Exchanges.GateIO,
			domain.Poloniex: cfg.Exchanges.Poloniex,
		}

		sources := make([]app.PriceSource, 0, len(restEndpoints)+1)
		for _, ex := range domain.Exchanges() {
			ep, ok := restEndpoints[ex]
			if !ok {
				continue
			}
			src, err := rest.NewSource(rest.Config{
				Exchange:          ex,
				BaseURL:           ep.BaseURL,
				Timeout:           ep.Timeout,
				RequestsPerMinute: ep.RequestsPerMinute,
			}, log)
			if err != nil {
				panic("failed to create " + ex.Slug() + " price source: " + err.Error())
			}
			sources = append(sources, src)
		}

		sources = append(sources, binance.NewSource(binance.Config{
			BaseURL:           cfg.Exchanges.Binance.BaseURL,
			Timeout:           cfg.Exchanges.Binance.Timeout,
			RequestsPerMinute: cfg.Exchanges.Binance.RequestsPerMinute,
		}, log))

		return sources
	})

	di.RegisterToken(c, pricingDI.RouteQuoter, func(sr di.ServiceRegistry) app.RouteQuoter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		tokens := sr.Get("tokenRegistry").(*asset.Registry)

		quoter, err := lifi.NewQuoter(lifi.Config{
			BaseURL:    cfg.DEX.BaseURL,
			Integrator: cfg.DEX.Integrator,
			Timeout:    cfg.DEX.Timeout,
		}, tokens, log)
		if err != nil {
			panic("failed to create route quoter: " + err.Error())
		}
		return quoter
	})

	// Register PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewPricingService(
			pricingDI.GetPriceSources(sr),
			pricingDI.GetRouteQuoter(sr),
			cfg.Exchanges.QuoteTTL,
			log,
		)
	})

	return nil
}

// Startup resolves the pricing service so construction errors surface at boot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	svc := pricingDI.GetPricingService(mono.Services())
	mono.Logger().Info(ctx, "pricing module started", "exchanges", len(svc.Exchanges()))
	return nil
}
