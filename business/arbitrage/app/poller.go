package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

// DefaultPollInterval is the cadence of the periodic evaluation.
const DefaultPollInterval = 15 * time.Second

// Runner runs one evaluation.
type Runner interface {
	Run(ctx context.Context, req Request) (*domain.Report, error)
}

// Poller re-evaluates one route on a fixed interval. A tick that lands while
// the previous iteration is still running is skipped. The first failed
// iteration disables the poller.
type Poller struct {
	runner   Runner
	request  Request
	interval time.Duration
	logger   logger.LoggerInterface

	enabled  atomic.Bool
	inFlight atomic.Bool
	skipped  atomic.Int64
	runs     atomic.Int64

	onDisable func(err error)

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// OnDisable is called once when an iteration error disables the poller.
func OnDisable(fn func(err error)) PollerOption {
	return func(p *Poller) { p.onDisable = fn }
}

// NewPoller creates a Poller. A non-positive interval selects the default.
func NewPoller(runner Runner, req Request, interval time.Duration, log logger.LoggerInterface, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{
		runner:   runner,
		request:  req,
		interval: interval,
		logger:   log,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start runs one iteration immediately and then one per interval until Stop,
// ctx cancellation, or the first failure.
func (p *Poller) Start(ctx context.Context) {
	p.enabled.Store(true)
	p.logger.Info(ctx, "poller started", "interval", p.interval)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				p.enabled.Store(false)
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

func (p *Poller) tick(ctx context.Context) {
	if !p.enabled.Load() {
		return
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.logger.Debug(ctx, "poll skipped, previous iteration in flight")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)

		p.runs.Add(1)
		if _, err := p.runner.Run(ctx, p.request); err != nil {
			p.logger.Error(ctx, "poll iteration failed, disabling poller", "error", err)
			p.disable()
			if p.onDisable != nil {
				p.onDisable(err)
			}
		}
	}()
}

func (p *Poller) disable() {
	p.enabled.Store(false)
	p.stopOnce.Do(func() { close(p.stop) })
}

// Stop prevents further iterations. An iteration already running is not
// interrupted; use Wait to block until it finishes.
func (p *Poller) Stop() {
	p.disable()
}

// Wait blocks until the loop and any in-flight iteration have returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Close stops the poller and waits for it.
func (p *Poller) Close() error {
	p.Stop()
	p.Wait()
	return nil
}

// Enabled reports whether the poller will run further iterations.
func (p *Poller) Enabled() bool {
	return p.enabled.Load()
}

// InFlight reports whether an iteration is currently running.
func (p *Poller) InFlight() bool {
	return p.inFlight.Load()
}

// Stats returns the number of iterations started and ticks skipped.
func (p *Poller) Stats() (runs, skipped int64) {
	return p.runs.Load(), p.skipped.Load()
}
