// Package di contains dependency injection tokens for the network context.
package di

import (
	"github.com/fd1az/arbitrage-evaluator/business/network/app"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Resolver = di.NewToken[*app.Resolver]("network.Resolver")
)

// Private dependency tokens - internal to network module
var (
	Source = di.NewToken[app.NetworkSource]("network:source")
)

func GetResolver(c di.ServiceRegistry) *app.Resolver {
	return di.GetToken(c, Resolver)
}

func GetSource(c di.ServiceRegistry) app.NetworkSource {
	return di.GetToken(c, Source)
}
