// Package main is the entry point for the arbitrage evaluator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage"
	arbitrageDI "github.com/fd1az/arbitrage-evaluator/business/arbitrage/di"
	"github.com/fd1az/arbitrage-evaluator/business/catalog"
	catalogDI "github.com/fd1az/arbitrage-evaluator/business/catalog/di"
	"github.com/fd1az/arbitrage-evaluator/business/network"
	networkDI "github.com/fd1az/arbitrage-evaluator/business/network/di"
	"github.com/fd1az/arbitrage-evaluator/business/pricing"
	pricingDI "github.com/fd1az/arbitrage-evaluator/business/pricing/di"
	"github.com/fd1az/arbitrage-evaluator/internal/apm"
	"github.com/fd1az/arbitrage-evaluator/internal/config"
	"github.com/fd1az/arbitrage-evaluator/internal/health"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
	"github.com/fd1az/arbitrage-evaluator/internal/metrics"
	"github.com/fd1az/arbitrage-evaluator/internal/monolith"
	"github.com/fd1az/arbitrage-evaluator/internal/server"
	"github.com/fd1az/arbitrage-evaluator/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Log to stderr instead of showing the poll dashboard")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("arbitrage-evaluator %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *cliMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, cliMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The dashboard only has something to show when the poller runs.
	tuiMode := !cliMode && cfg.Poll.Enabled
	cfg.Poll.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var logOut io.Writer = os.Stderr
	if tuiMode {
		logOut = io.Discard
	}
	log := logger.New(logOut, logLevel, cfg.App.Name, nil)
	log.Info(ctx, "starting arbitrage evaluator",
		"version", version,
		"environment", cfg.App.Environment,
	)

	if cfg.Telemetry.Enabled {
		traceProvider, err := apm.NewTraceProvider(ctx, apm.Config{
			Provider:    apm.ParseProvider(cfg.Telemetry.Tracing),
			ServiceName: cfg.Telemetry.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Headers:     metrics.ParseHeaders(cfg.Telemetry.OTLPHeaders),
			Protocol:    cfg.Telemetry.OTLPProtocol,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer traceProvider.Stop()

		metricOpts := []metrics.OptionFn{
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
		}
		if cfg.Telemetry.Tracing == string(apm.OTLPProvider) && cfg.Telemetry.OTLPEndpoint != "" {
			metricOpts = append(metricOpts, metrics.WithProviderConfig(metrics.NewOtelCollectorConfig(
				cfg.Telemetry.OTLPEndpoint,
				metrics.ParseHeaders(cfg.Telemetry.OTLPHeaders),
				strings.HasPrefix(cfg.Telemetry.OTLPEndpoint, "http://"),
			)))
		}
		meterProvider, err := metrics.NewMetricProvider(ctx, metricOpts...)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		defer meterProvider.Shutdown(context.Background())

		go metrics.ServePrometheusMetrics(ctx, log, metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
	}

	mono := monolith.New(cfg, log)
	defer func() {
		if err := mono.Close(); err != nil {
			log.Error(context.Background(), "shutdown error", "error", err)
		}
	}()

	modules := []monolith.Module{
		&pricing.Module{},
		&catalog.Module{},
		&network.Module{},
		&arbitrage.Module{}, // depends on the three above
	}
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	start := func() error {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		startServers(ctx, mono, log)
		return nil
	}

	if tuiMode {
		return runTUI(ctx, start)
	}

	if err := start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info(context.Background(), "shutting down")
	return nil
}

// startServers starts the API and health listeners and registers their shutdown.
func startServers(ctx context.Context, mono monolith.Monolith, log logger.LoggerInterface) {
	cfg := mono.Config()
	sr := mono.Services()

	api := server.New(cfg.Server, server.Dependencies{
		Prices:     pricingDI.GetPricingService(sr),
		Catalog:    catalogDI.GetCatalog(sr),
		Networks:   networkDI.GetResolver(sr),
		Evaluator:  arbitrageDI.GetPipeline(sr),
		Calculator: arbitrageDI.GetEvaluator(sr),
		Advisor:    arbitrageDI.GetAdvisory(sr),
		Live:       arbitrageDI.GetLiveHub(sr),
	}, log)
	api.Start(ctx)

	healthServer := health.NewServer(cfg.Server.HealthPort, version, log)
	healthServer.RegisterCheck("catalog", health.Ping(catalogDI.GetBackend(sr).Ping))
	if archive := arbitrageDI.GetArchive(sr); archive != nil {
		healthServer.RegisterCheck("archive", health.Ping(archive.Ping))
	}
	if cfg.Poll.Enabled {
		poller := arbitrageDI.GetPoller(sr)
		healthServer.RegisterCheck("poller", func(context.Context) (bool, string) {
			runs, skipped := poller.Stats()
			msg := fmt.Sprintf("runs=%d skipped=%d", runs, skipped)
			return poller.Enabled(), msg
		})
	}
	healthServer.Start(ctx)

	mono.OnClose(closerFunc(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := api.Stop(shutdownCtx); err != nil {
			return err
		}
		return healthServer.Stop(shutdownCtx)
	}))
}

func runTUI(ctx context.Context, start func() error) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		if err := start(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
