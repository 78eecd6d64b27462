// Package memory is an in-process catalog store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/app"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// Store keeps asset lists in a map. Values are copied in and out.
type Store struct {
	mu     sync.RWMutex
	assets map[pricing.Exchange][]string
}

var _ app.Store = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{assets: make(map[pricing.Exchange][]string)}
}

func (s *Store) Get(_ context.Context, exchange pricing.Exchange) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets[exchange]), nil
}

func (s *Store) Put(_ context.Context, exchange pricing.Exchange, assets []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[exchange] = slices.Clone(assets)
	return nil
}

// Ping always succeeds; it lets the store stand in for a health check.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
