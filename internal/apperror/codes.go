package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"
	CodeRetryExhausted       Code = "RETRY_EXHAUSTED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Evaluation desk error codes
const (
	// Market data
	CodeInvalidPrice        Code = "INVALID_PRICE"
	CodeUnknownExchange     Code = "UNKNOWN_EXCHANGE"
	CodeUnknownPair         Code = "UNKNOWN_PAIR"
	CodeExchangeUnreachable Code = "EXCHANGE_UNREACHABLE"
	CodeExchangeAPIError    Code = "EXCHANGE_API_ERROR"
	CodeInvalidAsset        Code = "INVALID_ASSET"

	// Persistence
	CodePersistenceFailed Code = "PERSISTENCE_FAILED"
	CodeLockHeld          Code = "LOCK_HELD"

	// Networks
	CodeNetworkLookupFailed Code = "NETWORK_LOOKUP_FAILED"

	// Evaluation and advisory
	CodeInvalidRoute             Code = "INVALID_ROUTE"
	CodeAdvisoryGenerationFailed Code = "ADVISORY_GENERATION_FAILED"
	CodeArchiveFailed            Code = "ARCHIVE_FAILED"

	// DEX routing
	CodeInvalidTokenAddress Code = "INVALID_TOKEN_ADDRESS"
	CodeRouteQuoteFailed    Code = "ROUTE_QUOTE_FAILED"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Cache errors
	CodeCacheMiss Code = "CACHE_MISS"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
