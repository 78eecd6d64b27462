// Package advisory provides commentary generators for evaluated routes.
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/httpclient"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

const tracerName = "github.com/fd1az/arbitrage-evaluator/business/arbitrage/infra/advisory"

// HTTPConfig configures an HTTPGenerator.
type HTTPConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type commentaryResponse struct {
	Commentary string `json:"commentary"`
}

// HTTPGenerator posts the evaluation context to a commentary service and
// expects {"commentary": "..."} back.
type HTTPGenerator struct {
	client   httpclient.Client
	endpoint string
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

var _ app.AdvisoryGenerator = (*HTTPGenerator)(nil)

// NewHTTPGenerator creates an HTTPGenerator.
func NewHTTPGenerator(cfg HTTPConfig, log logger.LoggerInterface) (*HTTPGenerator, error) {
	if !strings.HasPrefix(cfg.Endpoint, "http") {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithContext("advisory endpoint "+cfg.Endpoint))
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	headers := map[string]string{"Accept": "application/json"}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	tracer := otel.Tracer(tracerName)
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("advisory"),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(tracer),
		httpclient.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &HTTPGenerator{client: client, endpoint: cfg.Endpoint, logger: log, tracer: tracer}, nil
}

// Generate implements app.AdvisoryGenerator. A 503 comes back as a transient
// error so the adapter retries it.
func (g *HTTPGenerator) Generate(ctx context.Context, evalCtx domain.EvaluationContext) (string, error) {
	ctx, span := g.tracer.Start(ctx, "advisory.http.generate",
		trace.WithAttributes(
			attribute.String("asset", evalCtx.AssetA),
			attribute.String("exchange_a", evalCtx.ExchangeA),
			attribute.String("exchange_b", evalCtx.ExchangeB),
		),
	)
	defer span.End()

	resp, err := g.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "commentary")),
		httpclient.WithResponseErrorHandler(httpclient.StatusErrorHandler("advisory", apperror.CodeAdvisoryGenerationFailed)),
		httpclient.WithHeadersLogConfig(true, "Authorization"),
	).
		SetBody(evalCtx).
		Post(ctx, g.endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commentary request failed")
		if apperror.IsAppError(err) {
			return "", err
		}
		return "", apperror.External(apperror.CodeExternalServiceError, "advisory unreachable", err)
	}

	var body commentaryResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", apperror.New(apperror.CodeAdvisoryGenerationFailed, apperror.WithCause(err), apperror.WithContext("malformed commentary"))
	}
	if strings.TrimSpace(body.Commentary) == "" {
		return "", apperror.New(apperror.CodeAdvisoryGenerationFailed, apperror.WithContext("empty commentary"))
	}

	g.logger.Debug(ctx, "commentary generated", "asset", evalCtx.AssetA, "length", len(body.Commentary))
	return body.Commentary, nil
}
