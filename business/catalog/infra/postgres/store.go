package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/app"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// Store keeps one row per exchange in exchange_assets.
type Store struct {
	client *Client
}

var _ app.Store = (*Store)(nil)

// NewStore creates a Store. Migrations must already be applied.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Get returns the stored list, empty when the exchange has no row.
func (s *Store) Get(ctx context.Context, exchange pricing.Exchange) ([]string, error) {
	var assets []string
	err := s.client.pool.QueryRow(ctx,
		`SELECT assets FROM exchange_assets WHERE exchange = $1`,
		string(exchange),
	).Scan(&assets)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Persistence("postgres: get "+string(exchange), err)
	}
	return assets, nil
}

// Put replaces the exchange's list.
func (s *Store) Put(ctx context.Context, exchange pricing.Exchange, assets []string) error {
	if assets == nil {
		assets = []string{}
	}
	_, err := s.client.pool.Exec(ctx, `
		INSERT INTO exchange_assets (exchange, assets, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (exchange) DO UPDATE
		SET assets = EXCLUDED.assets, updated_at = EXCLUDED.updated_at`,
		string(exchange), assets,
	)
	if err != nil {
		return apperror.Persistence("postgres: put "+string(exchange), err)
	}
	return nil
}
