package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Request is a single outbound call being assembled.
type Request interface {
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string) (*Response, error)

	SetBody(body any) Request
	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
}

// Response is an http.Response whose body has already been read.
type Response struct {
	*http.Response
	body []byte
}

// Body returns the response body.
func (r *Response) Body() []byte {
	return r.body
}

// IsError reports a status >= 400.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

type requestBuilder struct {
	c                *InstrumentedClient
	headers          map[string]string
	queryParams      map[string]string
	body             any
	errorHandler     ResponseErrorHandler
	labels           []*Label
	excludeHeaders   []string
	enableLogHeaders bool
}

func (r *requestBuilder) Get(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodGet, path)
}

func (r *requestBuilder) Post(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodPost, path)
}

// SetBody sets the payload. Values other than []byte, string and io.Reader
// are JSON encoded.
func (r *requestBuilder) SetBody(body any) Request {
	r.body = body
	return r
}

func (r *requestBuilder) SetHeader(key, value string) Request {
	r.headers[key] = value
	return r
}

func (r *requestBuilder) SetQueryParam(key, value string) Request {
	r.queryParams[key] = value
	return r
}

// resolveURL joins path onto the base URL unless path is already absolute
// and appends the escaped query in stable key order.
func (r *requestBuilder) resolveURL(path string) string {
	full := path
	if base := r.c.baseURL; base != "" && !strings.HasPrefix(path, "http") {
		full = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if len(r.queryParams) == 0 {
		return full
	}

	params := make(url.Values, len(r.queryParams))
	for k, v := range r.queryParams {
		params.Set(k, v)
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + params.Encode()
}

func (r *requestBuilder) encodeBody(span trace.Span) (io.Reader, error) {
	switch b := r.body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		r.traceBody(span, string(b))
		return bytes.NewReader(b), nil
	case string:
		r.traceBody(span, b)
		return strings.NewReader(b), nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		if _, ok := r.headers["Content-Type"]; !ok {
			r.headers["Content-Type"] = "application/json"
		}
		r.traceBody(span, string(raw))
		return bytes.NewReader(raw), nil
	}
}

func (r *requestBuilder) traceBody(span trace.Span, body string) {
	if r.c.logRequest {
		span.AddEvent("request.body", trace.WithAttributes(attribute.String("http.request_body", body)))
	}
}

func (r *requestBuilder) execute(ctx context.Context, method, path string) (*Response, error) {
	ctx, span := r.c.tracer.Start(ctx, "http.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
			attribute.String("provider", r.c.providerName),
		),
	)
	defer span.End()
	start := time.Now()

	body, err := r.encodeBody(span)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, r.resolveURL(path), body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.enableLogHeaders {
		r.logHeaders(span, req.Header)
	}

	resp, err := r.c.client.Do(req)
	if err != nil {
		r.recordError(ctx, span, err, start)
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		r.recordError(ctx, span, err, start)
		return nil, fmt.Errorf("read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if r.c.logResponse {
		span.AddEvent("response.body", trace.WithAttributes(attribute.String("http.response_body", string(raw))))
	}
	response := &Response{Response: resp, body: raw}

	if r.errorHandler != nil {
		if herr := r.errorHandler(resp.StatusCode, raw); herr != nil {
			span.SetStatus(codes.Error, herr.Error())
			r.record(ctx, false, resp.StatusCode, start)
			return response, herr
		}
	}
	r.record(ctx, !response.IsError(), resp.StatusCode, start)
	return response, nil
}

func (r *requestBuilder) recordError(ctx context.Context, span trace.Span, err error, start time.Time) {
	span.RecordError(err)
	if errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.Bool("context.cancelled", true))
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		span.SetAttributes(attribute.Bool("request.timeout", true))
	}
	span.SetStatus(codes.Error, err.Error())
	r.record(ctx, false, 0, start)
}

func (r *requestBuilder) record(ctx context.Context, success bool, status int, start time.Time) {
	attrs := make([]attribute.KeyValue, 0, len(r.labels)+3)
	attrs = append(attrs,
		attribute.String("provider", r.c.providerName),
		attribute.Bool("success", success),
		attribute.Int("status", status),
	)
	for _, l := range r.labels {
		attrs = append(attrs, attribute.String(l.Key, l.Value))
	}

	set := metric.WithAttributes(attrs...)
	r.c.requests.Add(ctx, 1, set)
	r.c.durations.Record(ctx, float64(time.Since(start).Microseconds())/1000, set)
}

// logHeaders adds the request headers to the span, masking excluded ones.
func (r *requestBuilder) logHeaders(span trace.Span, headers http.Header) {
	masked := make(map[string]bool, len(r.excludeHeaders))
	for _, h := range r.excludeHeaders {
		masked[strings.ToLower(h)] = true
	}

	attrs := make([]attribute.KeyValue, 0, len(headers))
	for k := range headers {
		key := strings.ToLower(k)
		val := headers.Get(k)
		if masked[key] {
			val = "*****"
		}
		attrs = append(attrs, attribute.String("http.request.header."+key, val))
	}
	if len(attrs) > 0 {
		span.AddEvent("request.headers", trace.WithAttributes(attrs...))
	}
}
