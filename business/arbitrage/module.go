// Package arbitrage implements the evaluation bounded context: pricing a
// route, computing its spread, checking transfer networks and reporting.
package arbitrage

import (
	"context"
	"os"
	"time"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/arbitrage-evaluator/business/arbitrage/di"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/advisory"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/console"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/live"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/s3archive"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/telemetry"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/tui"
	catalogDI "github.com/fd1az/arbitrage-evaluator/business/catalog/di"
	networkDI "github.com/fd1az/arbitrage-evaluator/business/network/di"
	pricingDI "github.com/fd1az/arbitrage-evaluator/business/pricing/di"
	"github.com/fd1az/arbitrage-evaluator/internal/config"
	"github.com/fd1az/arbitrage-evaluator/internal/di"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/monolith"
	"github.com/fd1az/arbitrage-evaluator/internal/retry"
	"github.com/fd1az/arbitrage-evaluator/internal/wsconn"
)

const archiveConnectTimeout = 10 * time.Second

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.Evaluator, func(sr di.ServiceRegistry) *app.Evaluator {
		return app.NewEvaluator()
	})

	di.RegisterToken(c, arbitrageDI.LiveHub, func(sr di.ServiceRegistry) *wsconn.Hub {
		return wsconn.NewHub(wsconn.DefaultConfig())
	})

	di.RegisterToken(c, arbitrageDI.Reporters, func(sr di.ServiceRegistry) []app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		reporters := []app.Reporter{live.NewReporter(arbitrageDI.GetLiveHub(sr), log)}
		if cfg.Telemetry.Enabled {
			metricsReporter, err := telemetry.NewReporter()
			if err != nil {
				panic("failed to create metrics reporter: " + err.Error())
			}
			reporters = append(reporters, metricsReporter)
		}
		if cfg.Poll.TUIMode {
			return append(reporters, tui.NewReporter())
		}
		return append(reporters, console.NewReporter(os.Stdout))
	})

	di.RegisterToken(c, arbitrageDI.Archive, func(sr di.ServiceRegistry) *s3archive.Archive {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		if !cfg.Archive.Enabled {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), archiveConnectTimeout)
		defer cancel()
		archive, err := s3archive.New(ctx, s3archive.Config{
			Endpoint:       cfg.Archive.Endpoint,
			Region:         cfg.Archive.Region,
			Bucket:         cfg.Archive.Bucket,
			Prefix:         cfg.Archive.Prefix,
			AccessKey:      cfg.Archive.AccessKey,
			SecretKey:      cfg.Archive.SecretKey,
			ForcePathStyle: cfg.Archive.ForcePathStyle,
		}, log)
		if err != nil {
			panic("failed to create evaluation archive: " + err.Error())
		}
		return archive
	})

	// Register AdvisoryAdapter (public - exposed to other modules)
	di.RegisterToken(c, arbitrageDI.Advisory, func(sr di.ServiceRegistry) *app.AdvisoryAdapter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var generator app.AdvisoryGenerator = advisory.NewRuleGenerator(cfg.Advisory.RiskSpreadDecimal())
		if cfg.Advisory.Endpoint != "" {
			httpGen, err := advisory.NewHTTPGenerator(advisory.HTTPConfig{
				Endpoint: cfg.Advisory.Endpoint,
				APIKey:   cfg.Advisory.APIKey,
				Timeout:  cfg.Advisory.Timeout,
			}, log)
			if err != nil {
				panic("failed to create advisory generator: " + err.Error())
			}
			generator = httpGen
		}

		return app.NewAdvisoryAdapter(generator, log,
			retry.WithMaxAttempts(cfg.Advisory.MaxAttempts),
			retry.WithExponentialBackoff(cfg.Advisory.BaseBackoff),
		)
	})

	// Register Pipeline (public - exposed to other modules)
	di.RegisterToken(c, arbitrageDI.Pipeline, func(sr di.ServiceRegistry) *app.Pipeline {
		log := sr.Get("logger").(logger.LoggerInterface)

		opts := []app.PipelineOption{
			app.WithAdvisory(arbitrageDI.GetAdvisory(sr)),
			app.WithReporters(arbitrageDI.GetReporters(sr)...),
		}
		if archive := arbitrageDI.GetArchive(sr); archive != nil {
			opts = append(opts, app.WithArchive(archive))
		}

		return app.NewPipeline(
			pricingDI.GetPricingService(sr),
			catalogDI.GetCatalog(sr),
			arbitrageDI.GetEvaluator(sr),
			networkDI.GetResolver(sr),
			log,
			opts...,
		)
	})

	di.RegisterToken(c, arbitrageDI.Poller, func(sr di.ServiceRegistry) *app.Poller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		var opts []app.PollerOption
		if cfg.Poll.TUIMode {
			dashboard := tui.NewReporter()
			opts = append(opts, app.OnDisable(func(err error) {
				dashboard.PollState(false, err.Error())
			}))
		}
		return app.NewPoller(arbitrageDI.GetPipeline(sr), PollRequest(cfg.Poll), cfg.Poll.Interval, log, opts...)
	})

	return nil
}

// PollRequest converts the configured route into a pipeline request. Prices
// are always fetched live.
func PollRequest(cfg config.PollConfig) app.Request {
	return app.Request{
		Mode: cfg.Mode,
		LegA: app.LegRequest{
			Exchange:   cfg.ExchangeA,
			Asset:      cfg.AssetA,
			FeePercent: cfg.FeeADecimal(),
		},
		LegB: app.LegRequest{
			Exchange:   cfg.ExchangeB,
			Asset:      cfg.AssetB,
			FeePercent: cfg.FeeBDecimal(),
		},
		Capital:  cfg.CapitalDecimal(),
		Advisory: cfg.Advisory,
	}
}

// Startup starts the reporters and, when enabled, the poller.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	reporters := arbitrageDI.GetReporters(mono.Services())
	for _, r := range reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}
	mono.OnClose(closerFunc(func() error {
		for _, r := range reporters {
			if err := r.Stop(); err != nil {
				log.Warn(context.Background(), "reporter stop failed", "error", err)
			}
		}
		return nil
	}))
	mono.OnClose(arbitrageDI.GetLiveHub(mono.Services()))

	cfg := mono.Config()
	if !cfg.Poll.Enabled {
		log.Info(ctx, "arbitrage module started", "poller", false)
		return nil
	}

	poller := arbitrageDI.GetPoller(mono.Services())
	poller.Start(ctx)
	mono.OnClose(poller)
	if cfg.Poll.TUIMode {
		tui.NewReporter().PollState(true, "")
	}

	log.Info(ctx, "arbitrage module started",
		"poller", true,
		"route", cfg.Poll.ExchangeA+" -> "+cfg.Poll.ExchangeB,
		"asset", cfg.Poll.AssetA,
		"interval", cfg.Poll.Interval,
	)
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
