// Package app implements the asset catalog: a static fallback list served
// immediately, reconciled into a durable store in the background.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

const defaultReconcileTimeout = 10 * time.Second

// Catalog tracks the tradable assets of each exchange.
//
// GetAssets never waits on the store: it answers from the fallback and
// starts a detached reconciliation that may still be running when it
// returns. Two back-to-back reads are therefore not ordered with respect to
// the store. Wait blocks until every reconciliation started so far is done.
type Catalog struct {
	fallback         domain.Fallback
	store            Store
	locker           Locker
	logger           logger.LoggerInterface
	reconcileTimeout time.Duration

	wg sync.WaitGroup
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLocker replaces the in-process per-exchange mutex.
func WithLocker(l Locker) Option {
	return func(c *Catalog) {
		c.locker = l
	}
}

// WithReconcileTimeout bounds each background reconciliation.
func WithReconcileTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.reconcileTimeout = d
		}
	}
}

// NewCatalog creates a Catalog over store.
func NewCatalog(fallback domain.Fallback, store Store, log logger.LoggerInterface, opts ...Option) *Catalog {
	c := &Catalog{
		fallback:         fallback,
		store:            store,
		locker:           NewMutexLocker(),
		logger:           log,
		reconcileTimeout: defaultReconcileTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAssets returns the sorted fallback list for exchange.
func (c *Catalog) GetAssets(ctx context.Context, exchange pricing.Exchange) ([]asset.Symbol, error) {
	list, ok := c.fallback.Assets(exchange)
	if !ok {
		return nil, apperror.UnknownExchange(string(exchange))
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.reconcileTimeout)
		defer cancel()
		c.reconcile(rctx, exchange, list)
	}()

	return list, nil
}

func (c *Catalog) reconcile(ctx context.Context, exchange pricing.Exchange, fallback []asset.Symbol) {
	unlock, err := c.locker.Lock(ctx, exchange)
	if err != nil {
		c.logger.Warn(ctx, "catalog reconcile: lock not acquired", "exchange", exchange, "error", err)
		return
	}
	defer unlock()

	stored, err := c.store.Get(ctx, exchange)
	if err != nil {
		c.logger.Warn(ctx, "catalog reconcile: read failed", "exchange", exchange, "error", err)
		return
	}
	if !domain.NeedsReconcile(stored, fallback) {
		return
	}

	merged := domain.Union(stored, fallback)
	if err := c.store.Put(ctx, exchange, merged); err != nil {
		c.logger.Warn(ctx, "catalog reconcile: write failed", "exchange", exchange, "error", err)
		return
	}
	c.logger.Debug(ctx, "catalog reconciled", "exchange", exchange, "stored", len(stored), "total", len(merged))
}

// AddAsset records rawAsset for exchange. Adding a symbol already present,
// in any casing, changes nothing. Store and lock failures are logged and
// swallowed; only an unknown exchange or an empty symbol is returned.
func (c *Catalog) AddAsset(ctx context.Context, exchange pricing.Exchange, rawAsset string) error {
	if !exchange.Valid() {
		return apperror.UnknownExchange(string(exchange))
	}
	symbol, err := asset.Normalize(rawAsset)
	if err != nil {
		return err
	}

	unlock, err := c.locker.Lock(ctx, exchange)
	if err != nil {
		c.logger.Warn(ctx, "catalog add: lock not acquired", "exchange", exchange, "asset", symbol, "error", err)
		return nil
	}
	defer unlock()

	current, err := c.store.Get(ctx, exchange)
	if err != nil {
		c.logger.Error(ctx, "catalog add: read failed", "exchange", exchange, "asset", symbol, "error", err)
		return nil
	}
	if asset.ContainsFold(current, symbol) {
		return nil
	}

	next := append(current[:len(current):len(current)], symbol.String())
	if err := c.store.Put(ctx, exchange, next); err != nil {
		c.logger.Error(ctx, "catalog add: write failed", "exchange", exchange, "asset", symbol, "error", err)
		return nil
	}

	c.logger.Info(ctx, "asset added to catalog", "exchange", exchange, "asset", symbol)
	return nil
}

// StoredAssets reads the durable list directly. Used by health checks and
// the poll dashboard; errors are returned unchanged.
func (c *Catalog) StoredAssets(ctx context.Context, exchange pricing.Exchange) ([]string, error) {
	return c.store.Get(ctx, exchange)
}

// Wait blocks until all reconciliations started so far have finished.
func (c *Catalog) Wait() {
	c.wg.Wait()
}
