package app

import (
	"context"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	network "github.com/fd1az/arbitrage-evaluator/business/network/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/retry"
)

// AdvisoryAdapter wraps an AdvisoryGenerator with retries on transient
// failures.
type AdvisoryAdapter struct {
	generator AdvisoryGenerator
	logger    logger.LoggerInterface
	retryOpts []retry.Option
}

// NewAdvisoryAdapter creates an AdvisoryAdapter. opts are applied after the
// defaults of three attempts with 1s, 2s backoff.
func NewAdvisoryAdapter(generator AdvisoryGenerator, log logger.LoggerInterface, opts ...retry.Option) *AdvisoryAdapter {
	a := &AdvisoryAdapter{generator: generator, logger: log}
	a.retryOpts = append([]retry.Option{
		retry.WithMaxAttempts(retry.DefaultMaxAttempts),
		retry.WithOnRetry(func(failures int, delay time.Duration, err error) {
			log.Warn(context.Background(), "advisory retry", "failures", failures, "delay", delay, "error", err)
		}),
	}, opts...)
	return a
}

// RequestAdvisory returns commentary for an evaluated route. Any failure,
// including exhausted retries, comes back as ADVISORY_GENERATION_FAILED.
func (a *AdvisoryAdapter) RequestAdvisory(ctx context.Context, result *domain.Result, net network.CompatibilityResult, route domain.Route) (string, error) {
	evalCtx := domain.NewEvaluationContext(route, result, net)
	return a.Generate(ctx, evalCtx)
}

// Generate runs the generator for a prepared context.
func (a *AdvisoryAdapter) Generate(ctx context.Context, evalCtx domain.EvaluationContext) (string, error) {
	text, err := retry.Execute(ctx, func(ctx context.Context) (string, error) {
		return a.generator.Generate(ctx, evalCtx)
	}, a.retryOpts...)
	if err != nil {
		a.logger.Error(ctx, "advisory generation failed", "error", err)
		if apperror.IsCode(err, apperror.CodeAdvisoryGenerationFailed) {
			return "", err
		}
		return "", apperror.AdvisoryGeneration(err)
	}
	return text, nil
}
