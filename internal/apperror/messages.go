package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",
	CodeRetryExhausted:       "Operation failed after repeated attempts",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Market data
	CodeInvalidPrice:        "Price is not a positive finite number",
	CodeUnknownExchange:     "Exchange is not supported",
	CodeUnknownPair:         "Trading pair not listed on exchange",
	CodeExchangeUnreachable: "Exchange API unreachable",
	CodeExchangeAPIError:    "Exchange API returned an error",
	CodeInvalidAsset:        "Invalid asset symbol",

	// Persistence
	CodePersistenceFailed: "Failed to persist data",
	CodeLockHeld:          "Lock is held by another writer",

	// Networks
	CodeNetworkLookupFailed: "Network lookup failed",

	// Evaluation and advisory
	CodeInvalidRoute:             "Invalid arbitrage route",
	CodeAdvisoryGenerationFailed: "advisory generation failed after repeated attempts",
	CodeArchiveFailed:            "Failed to archive evaluation",

	// DEX routing
	CodeInvalidTokenAddress: "Invalid token contract address",
	CodeRouteQuoteFailed:    "Failed to get route quote",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Cache errors
	CodeCacheMiss: "Cache miss",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
