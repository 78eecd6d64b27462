// Package retry runs operations with bounded attempts and exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type options struct {
	maxAttempts int
	retryIf     func(error) bool
	backoff     func(failures int) time.Duration
	sleep       Sleeper
	onRetry     func(failures int, delay time.Duration, err error)
}

// Option configures Execute.
type Option func(*options)

// WithMaxAttempts bounds the total number of calls, first call included.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRetryIf replaces the retryable-error predicate.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *options) { o.retryIf = fn }
}

// WithBackoff replaces the delay schedule. failures counts failed calls so far (1-based).
func WithBackoff(fn func(failures int) time.Duration) Option {
	return func(o *options) { o.backoff = fn }
}

// WithExponentialBackoff waits base*2^failures before the next call.
func WithExponentialBackoff(base time.Duration) Option {
	return WithBackoff(Exponential(base))
}

// WithSleeper replaces the wait, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(o *options) { o.sleep = s }
}

// WithOnRetry is called before each wait.
func WithOnRetry(fn func(failures int, delay time.Duration, err error)) Option {
	return func(o *options) { o.onRetry = fn }
}

// Exponential returns base*2^failures.
func Exponential(base time.Duration) func(int) time.Duration {
	return func(failures int) time.Duration {
		return base * time.Duration(1<<failures)
	}
}

// Execute calls op until it succeeds, returns a non-retryable error, or the
// attempt budget runs out. By default only transient (503 class) errors are retried.
//
// Non-retryable errors are returned unchanged. Exhaustion returns a
// RETRY_EXHAUSTED AppError wrapping the last error.
func Execute[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := options{
		maxAttempts: DefaultMaxAttempts,
		retryIf:     apperror.IsTransient,
		backoff:     Exponential(DefaultBaseDelay),
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	var lastErr error

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !o.retryIf(err) {
			return zero, err
		}
		if attempt == o.maxAttempts {
			break
		}

		delay := o.backoff(attempt)
		if o.onRetry != nil {
			o.onRetry(attempt, delay, err)
		}
		if err := o.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, apperror.New(apperror.CodeRetryExhausted,
		apperror.WithCause(lastErr),
		apperror.WithStatusCode(apperror.StatusCode(lastErr)),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
