// Package di contains dependency injection tokens for the catalog context.
package di

import (
	"context"
	"io"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/app"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
)

// Backend is the configured store with its lock and lifecycle hooks.
type Backend struct {
	Name   string
	Store  app.Store
	Locker app.Locker
	Ping   func(context.Context) error
	Closer io.Closer
}

// Public service tokens - exposed to other modules
var (
	Catalog = di.NewToken[*app.Catalog]("catalog.Catalog")
)

// Private dependency tokens - internal to catalog module
var (
	StoreBackend = di.NewToken[*Backend]("catalog:backend")
)

func GetCatalog(c di.ServiceRegistry) *app.Catalog {
	return di.GetToken(c, Catalog)
}

func GetBackend(c di.ServiceRegistry) *Backend {
	return di.GetToken(c, StoreBackend)
}
