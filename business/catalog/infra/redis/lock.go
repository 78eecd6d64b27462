package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fd1az/arbitrage-evaluator/business/catalog/app"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// unlockLua deletes the lock only if it still holds the caller's token.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

const (
	defaultLockTTL = 10 * time.Second
	lockPollEvery  = 50 * time.Millisecond
)

// Locker is an app.Locker built on SETNX with a TTL, so writers in
// different processes serialize too.
type Locker struct {
	rdb      *redis.Client
	unlockSc *redis.Script
	ttl      time.Duration
}

var _ app.Locker = (*Locker)(nil)

// NewLocker creates a Locker. ttl bounds how long a crashed holder blocks others.
func NewLocker(c *Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{
		rdb:      c.rdb,
		unlockSc: redis.NewScript(unlockLua),
		ttl:      ttl,
	}
}

func lockKey(exchange pricing.Exchange) string {
	return "lock:catalog:" + exchange.Slug()
}

// Lock polls until the lock is taken, ctx is done, or one TTL has passed.
func (l *Locker) Lock(ctx context.Context, exchange pricing.Exchange) (func(), error) {
	token := uuid.New().String()
	key := lockKey(exchange)
	deadline := time.Now().Add(l.ttl)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, apperror.Persistence("redis: acquire "+key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, apperror.New(apperror.CodeLockHeld, apperror.WithContext(key))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true

		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = l.unlockSc.Run(unlockCtx, l.rdb, []string{key}, token).Err()
	}, nil
}
