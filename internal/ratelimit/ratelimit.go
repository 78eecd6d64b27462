// Package ratelimit provides a wrapper around golang.org/x/time/rate.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// Limiter wraps rate.Limiter with convenience methods.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a new rate limiter.
// requestsPerMinute specifies how many requests are allowed per minute.
// A non-positive value disables limiting.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}

	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10 // Allow burst of 10% of rate limit
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a token is available. A context that ends first yields
// RATE_LIMIT_EXCEEDED wrapping the context error.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}
	return nil
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	return l.limiter.Tokens()
}

// Group holds one limiter per key, created on first use.
type Group struct {
	mu       sync.Mutex
	perKey   map[string]*Limiter
	defaults int
	limits   map[string]int
}

// NewGroup creates a Group. limits overrides requestsPerMinute per key.
func NewGroup(requestsPerMinute int, limits map[string]int) *Group {
	return &Group{
		perKey:   make(map[string]*Limiter),
		defaults: requestsPerMinute,
		limits:   limits,
	}
}

// Get returns the limiter for key.
func (g *Group) Get(key string) *Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok := g.perKey[key]; ok {
		return l
	}
	rpm := g.defaults
	if v, ok := g.limits[key]; ok {
		rpm = v
	}
	l := New(rpm)
	g.perKey[key] = l
	return l
}

// Wait blocks on key's limiter.
func (g *Group) Wait(ctx context.Context, key string) error {
	return g.Get(key).Wait(ctx)
}
