package app

import (
	"context"
	"sync"

	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
)

// MutexLocker is an in-process Locker holding one mutex per exchange.
type MutexLocker struct {
	mu    sync.Mutex
	locks map[pricing.Exchange]chan struct{}
}

// NewMutexLocker creates a MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{locks: make(map[pricing.Exchange]chan struct{})}
}

// Lock blocks until the exchange's lock is free or ctx is done.
func (l *MutexLocker) Lock(ctx context.Context, exchange pricing.Exchange) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[exchange]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[exchange] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
