package apperror

import (
	"errors"
	"net/http"
)

// Typed constructors for the error kinds the evaluation desk distinguishes.

// InvalidPrice reports a quote that is missing, non-numeric, non-finite or not positive.
func InvalidPrice(context string) *AppError {
	return New(CodeInvalidPrice, WithContext(context))
}

// UnknownExchange reports an exchange outside the supported set.
func UnknownExchange(name string) *AppError {
	return New(CodeUnknownExchange, WithContext(name))
}

// UnknownPair reports a pair the exchange does not list.
func UnknownPair(context string) *AppError {
	return New(CodeUnknownPair, WithContext(context))
}

// Transient reports a temporary upstream failure that is safe to retry.
func Transient(context string, cause error) *AppError {
	return New(CodeServiceUnavailable, WithContext(context), WithCause(cause))
}

// Persistence wraps a store failure.
func Persistence(context string, cause error) *AppError {
	return New(CodePersistenceFailed, WithContext(context), WithCause(cause))
}

// AdvisoryGeneration wraps the last failure of the commentary generator.
func AdvisoryGeneration(cause error) *AppError {
	return New(CodeAdvisoryGenerationFailed, WithCause(cause))
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code Code) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.cause
	}
	return false
}

// IsTransient reports whether the outermost AppError in err is a temporary
// service failure (HTTP 503 class). An exhausted retry wrapping a 503 is not.
func IsTransient(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == CodeServiceUnavailable
}

// StatusCode returns the HTTP status for err, 500 for non-AppErrors.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
