// Package catalog implements the asset catalog bounded context.
package catalog

import (
	"context"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/app"
	catalogDI "github.com/fd1az/arbitrage-evaluator/business/catalog/di"
	"github.com/fd1az/arbitrage-evaluator/business/catalog/domain"
	"github.com/fd1az/arbitrage-evaluator/business/catalog/infra/memory"
	"github.com/fd1az/arbitrage-evaluator/business/catalog/infra/postgres"
	"github.com/fd1az/arbitrage-evaluator/business/catalog/infra/redis"
	"github.com/fd1az/arbitrage-evaluator/internal/config"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/monolith"
)

const connectTimeout = 10 * time.Second

// Module implements the catalog bounded context.
type Module struct{}

// RegisterServices registers all catalog services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, catalogDI.StoreBackend, func(sr di.ServiceRegistry) *catalogDI.Backend {
		cfg := sr.Get("config").(*config.Config)

		backend, err := openBackend(cfg.Catalog)
		if err != nil {
			panic("failed to open catalog store: " + err.Error())
		}
		return backend
	})

	di.RegisterToken(c, catalogDI.Catalog, func(sr di.ServiceRegistry) *app.Catalog {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		backend := catalogDI.GetBackend(sr)

		opts := []app.Option{app.WithReconcileTimeout(cfg.Catalog.ReconcileTimeout)}
		if backend.Locker != nil {
			opts = append(opts, app.WithLocker(backend.Locker))
		}
		return app.NewCatalog(domain.DefaultFallback(), backend.Store, log, opts...)
	})

	return nil
}

func openBackend(cfg config.CatalogConfig) (*catalogDI.Backend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch cfg.Backend {
	case "postgres":
		client, err := postgres.New(ctx, postgres.ClientConfig{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, err
		}
		if err := client.RunMigrations(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &catalogDI.Backend{
			Name:   "postgres",
			Store:  postgres.NewStore(client),
			Ping:   client.Ping,
			Closer: client,
		}, nil

	case "redis":
		client, err := redis.New(ctx, redis.ClientConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &catalogDI.Backend{
			Name:   "redis",
			Store:  redis.NewStore(client),
			Locker: redis.NewLocker(client, cfg.LockTTL),
			Ping:   client.Ping,
			Closer: client,
		}, nil

	default:
		store := memory.NewStore()
		return &catalogDI.Backend{
			Name:   "memory",
			Store:  store,
			Ping:   store.Ping,
			Closer: store,
		}, nil
	}
}

// Startup opens the store and registers it for shutdown.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	backend := catalogDI.GetBackend(mono.Services())
	mono.OnClose(closerFunc(func() error {
		catalogDI.GetCatalog(mono.Services()).Wait()
		return backend.Closer.Close()
	}))

	mono.Logger().Info(ctx, "catalog module started", "backend", backend.Name)
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
