package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	pricing "github.com/fd1az/arbitrage-evaluator/business/pricing/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/asset"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

// LegRequest describes one leg. A nil Price is fetched live.
type LegRequest struct {
	Exchange   string
	Asset      string
	Price      *decimal.Decimal
	FeePercent decimal.Decimal
}

// Request is one evaluation. AssetB defaults to AssetA.
type Request struct {
	Mode        int
	LegA        LegRequest
	LegB        LegRequest
	Counterpart string
	Capital     decimal.Decimal
	Advisory    bool
}

// Pipeline prices, evaluates and annotates a route.
type Pipeline struct {
	quoter    PriceQuoter
	recorder  AssetRecorder
	evaluator *Evaluator
	resolver  NetworkResolver
	advisory  *AdvisoryAdapter
	archive   Archive
	reporters []Reporter
	logger    logger.LoggerInterface
	now       func() time.Time
}

// PipelineOption configures optional Pipeline collaborators.
type PipelineOption func(*Pipeline)

// WithAdvisory enables commentary for requests that ask for it.
func WithAdvisory(a *AdvisoryAdapter) PipelineOption {
	return func(p *Pipeline) { p.advisory = a }
}

// WithArchive stores every report.
func WithArchive(a Archive) PipelineOption {
	return func(p *Pipeline) { p.archive = a }
}

// WithReporters fans every report out to rs.
func WithReporters(rs ...Reporter) PipelineOption {
	return func(p *Pipeline) { p.reporters = append(p.reporters, rs...) }
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	quoter PriceQuoter,
	recorder AssetRecorder,
	evaluator *Evaluator,
	resolver NetworkResolver,
	log logger.LoggerInterface,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		quoter:    quoter,
		recorder:  recorder,
		evaluator: evaluator,
		resolver:  resolver,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run evaluates req. A failed price fetch aborts the run with that error.
// Catalog, advisory, archive and reporter failures never fail the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*domain.Report, error) {
	start := p.now()

	route, err := p.buildRoute(req)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:        uuid.NewString(),
		Timestamp: start.UTC(),
	}

	if err := p.fillPrices(ctx, req, &route, report); err != nil {
		return nil, err
	}
	report.Route = route

	result := p.evaluator.Evaluate(route)
	if result == nil {
		return nil, apperror.Validation(apperror.CodeInvalidRoute, "route is not evaluable")
	}
	report.Result = result

	net := p.resolver.Resolve(ctx, route.LegA.Asset, route.LegA.Exchange, route.LegB.Exchange)
	report.Network = &net

	if req.Advisory && p.advisory != nil {
		commentary, err := p.advisory.RequestAdvisory(ctx, result, net, route)
		if err != nil {
			report.Warnings = append(report.Warnings, err.Error())
		} else {
			report.Commentary = commentary
		}
	}

	report.Duration = p.now().Sub(start)

	if p.archive != nil {
		if err := p.archive.Store(ctx, report); err != nil {
			p.logger.Warn(ctx, "archive failed", "id", report.ID, "error", err)
		}
	}
	p.publish(report)

	p.logger.Debug(ctx, "evaluation complete",
		"id", report.ID,
		"mode", route.Mode.String(),
		"direction", route.Direction().String(),
		"spread", result.NetSpreadPercent.StringFixed(4),
		"diagnosis", result.Diagnosis,
		"duration", report.Duration,
	)
	return report, nil
}

func (p *Pipeline) buildRoute(req Request) (domain.Route, error) {
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		return domain.Route{}, err
	}
	if !req.Capital.IsPositive() {
		return domain.Route{}, apperror.Validation(apperror.CodeInvalidInput, "capital must be positive")
	}

	legA, err := buildLeg(req.LegA)
	if err != nil {
		return domain.Route{}, err
	}
	if req.LegB.Asset == "" {
		req.LegB.Asset = req.LegA.Asset
	}
	legB, err := buildLeg(req.LegB)
	if err != nil {
		return domain.Route{}, err
	}

	return domain.Route{Mode: mode, LegA: legA, LegB: legB, Capital: req.Capital}, nil
}

func buildLeg(req LegRequest) (domain.Leg, error) {
	ex, err := pricing.ParseExchange(req.Exchange)
	if err != nil {
		return domain.Leg{}, err
	}
	sym, err := asset.Normalize(req.Asset)
	if err != nil {
		return domain.Leg{}, err
	}
	if req.FeePercent.IsNegative() || req.FeePercent.GreaterThanOrEqual(hundred) {
		return domain.Leg{}, apperror.Validation(apperror.CodeInvalidInput, "fee percent must be in [0, 100)")
	}
	leg := domain.Leg{Exchange: ex, Asset: sym, FeePercent: req.FeePercent}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return domain.Leg{}, apperror.InvalidPrice(string(ex) + ": " + req.Price.String())
		}
		leg.Price = *req.Price
	}
	return leg, nil
}

// fillPrices fetches the legs that have no price concurrently.
func (p *Pipeline) fillPrices(ctx context.Context, req Request, route *domain.Route, report *domain.Report) error {
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(leg *domain.Leg, slot **pricing.Quote) {
		g.Go(func() error {
			began := time.Now()
			quote, err := p.quoter.GetPrice(gctx, leg.Exchange, string(leg.Asset), req.Counterpart)
			p.connectionStatus(string(leg.Exchange), err == nil, time.Since(began))
			if err != nil {
				return err
			}
			leg.Price = quote.Price
			*slot = quote
			return nil
		})
	}

	if req.LegA.Price == nil {
		fetch(&route.LegA, &report.QuoteA)
	}
	if req.LegB.Price == nil {
		fetch(&route.LegB, &report.QuoteB)
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn(ctx, "price fetch failed", "error", err)
		return err
	}

	// Only assets an exchange actually quoted are worth remembering.
	if report.QuoteA != nil {
		p.record(ctx, route.LegA)
	}
	if report.QuoteB != nil {
		p.record(ctx, route.LegB)
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, leg domain.Leg) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.AddAsset(ctx, leg.Exchange, string(leg.Asset)); err != nil {
		p.logger.Warn(ctx, "asset not recorded", "exchange", leg.Exchange, "asset", leg.Asset, "error", err)
	}
}

func (p *Pipeline) connectionStatus(name string, ok bool, latency time.Duration) {
	for _, r := range p.reporters {
		r.UpdateConnectionStatus(name, ok, latency)
	}
}

func (p *Pipeline) publish(report *domain.Report) {
	quotes := make([]*pricing.Quote, 0, 2)
	for _, q := range []*pricing.Quote{report.QuoteA, report.QuoteB} {
		if q != nil {
			quotes = append(quotes, q)
		}
	}
	for _, r := range p.reporters {
		if len(quotes) > 0 {
			r.UpdateQuotes(quotes...)
		}
		r.Report(report)
	}
}
