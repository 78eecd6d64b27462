// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/arbitrage-evaluator/business/pricing/app"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	PriceSources = di.NewToken[[]app.PriceSource]("pricing:priceSources")
	RouteQuoter  = di.NewToken[app.RouteQuoter]("pricing:routeQuoter")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetPriceSources(c di.ServiceRegistry) []app.PriceSource {
	return di.GetToken(c, PriceSources)
}

func GetRouteQuoter(c di.ServiceRegistry) app.RouteQuoter {
	return di.GetToken(c, RouteQuoter)
}
