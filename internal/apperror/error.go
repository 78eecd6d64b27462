// Package apperror defines the coded error type shared by every layer. A
// Code decides the default HTTP status and message; context and cause are
// attached per occurrence.
package apperror

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// AppError is an error carrying a stable code and an HTTP status.
type AppError struct {
	Code       Code      `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Context    string    `json:"context,omitempty"`
	TraceID    string    `json:"traceId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	cause      error
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Context != "" {
		b.WriteString(" (")
		b.WriteString(e.Context)
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches another AppError by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithTraceID stamps the trace the error surfaced in.
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ResponseBody is the "error" member of an HTTP error response.
type ResponseBody struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Context   string `json:"context,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
}

// Response is the JSON envelope written for failed API calls.
type Response struct {
	Error ResponseBody `json:"error"`
}

// ToResponse renders the error for an HTTP client. The cause is not exposed.
func (e *AppError) ToResponse() Response {
	return Response{Error: ResponseBody{
		Code:      e.Code,
		Message:   e.Message,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Context:   e.Context,
		TraceID:   e.TraceID,
	}}
}

// LogValue groups the error fields when an AppError is passed to slog.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("message", e.Message),
		slog.Int("status", e.StatusCode),
	}
	if e.Context != "" {
		attrs = append(attrs, slog.String("context", e.Context))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	return slog.GroupValue(attrs...)
}

// New creates an AppError with the code's default message and status.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: defaultStatus(code),
		Timestamp:  time.Now(),
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

// Option customises a new AppError.
type Option func(*AppError)

// WithMessage overrides the code's default message.
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext records what was being done, e.g. "MEXC JASMY_USDT".
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

// WithStatusCode overrides the default HTTP status.
func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

// WithCause wraps an underlying error.
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// NotFound creates a 404 error.
func NotFound(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusNotFound))
}

// Validation creates a 400 error.
func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusBadRequest))
}

// Internal creates a 500 error.
func Internal(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusInternalServerError))
}

// External creates a 503 error for a failing upstream.
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusServiceUnavailable))
}

// Wrap returns the first AppError in err's chain, filling in context when it
// has none, or wraps a plain error as an internal error with code.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}
	return Internal(code, context, err)
}

// IsAppError reports whether err's chain holds an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the outermost AppError code, or CodeUnknownError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

var statusByCode = map[Code]int{
	CodeRequiredField:   http.StatusBadRequest,
	CodeValidationError: http.StatusBadRequest,
	CodeUnknownExchange: http.StatusBadRequest,
	CodeUnknownPair:     http.StatusNotFound,

	CodeRateLimitExceeded:   http.StatusTooManyRequests,
	CodeServiceUnavailable:  http.StatusServiceUnavailable,
	CodeExchangeUnreachable: http.StatusServiceUnavailable,
	CodeCircuitOpen:         http.StatusServiceUnavailable,
	CodeServiceTimeout:      http.StatusServiceUnavailable,

	CodeExchangeAPIError: http.StatusBadGateway,
	CodeRouteQuoteFailed: http.StatusBadGateway,
}

func defaultStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	name := string(code)
	switch {
	case strings.HasSuffix(name, "NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(name, "INVALID_"):
		return http.StatusBadRequest
	case strings.Contains(name, "CONNECTION"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
