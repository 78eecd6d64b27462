package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/app"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// Store keeps each exchange's list as a JSON array under catalog:{slug}.
type Store struct {
	rdb *redis.Client
}

var _ app.Store = (*Store)(nil)

// NewStore creates a Store on c.
func NewStore(c *Client) *Store {
	return &Store{rdb: c.rdb}
}

func storeKey(exchange pricing.Exchange) string {
	return "catalog:" + exchange.Slug()
}

func (s *Store) Get(ctx context.Context, exchange pricing.Exchange) ([]string, error) {
	raw, err := s.rdb.Get(ctx, storeKey(exchange)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Persistence("redis: get "+string(exchange), err)
	}

	var assets []string
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, apperror.Persistence("redis: decode "+string(exchange), err)
	}
	return assets, nil
}

func (s *Store) Put(ctx context.Context, exchange pricing.Exchange, assets []string) error {
	if assets == nil {
		assets = []string{}
	}
	raw, err := json.Marshal(assets)
	if err != nil {
		return apperror.Persistence("redis: encode "+string(exchange), err)
	}
	if err := s.rdb.Set(ctx, storeKey(exchange), raw, 0).Err(); err != nil {
		return apperror.Persistence("redis: put "+string(exchange), err)
	}
	return nil
}
