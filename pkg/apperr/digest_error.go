// Package apperr defines structured application errors for the digest worker.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes. They mirror the pipeline's degradation taxonomy: fetch,
// model, provider-mutation and delivery failures are all recoverable.
const (
	CodeFetchFailed    = "FETCH_FAILED"
	CodeModelError     = "MODEL_ERROR"
	CodeProviderError  = "PROVIDER_ERROR"
	CodeDeliveryFailed = "DELIVERY_FAILED"
	CodeAuthFailed     = "AUTH_FAILED"
	CodeConfigError    = "CONFIG_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
)

// AppError represents a structured application error
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Constructor functions
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// FetchFailed marks a message-source listing failure. The pipeline treats
// it as zero messages available for the run.
func FetchFailed(err error) *AppError {
	return &AppError{
		Code:    CodeFetchFailed,
		Message: "failed to fetch unread messages",
		Err:     err,
	}
}

// ModelError marks a language-model call failure. Callers degrade locally
// and never inspect the subtype.
func ModelError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeModelError,
		Message: fmt.Sprintf("model call failed: %s", operation),
		Details: map[string]any{"operation": operation},
		Err:     err,
	}
}

// ProviderError marks a mail-provider mutation failure.
func ProviderError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeProviderError,
		Message: fmt.Sprintf("provider error: %s", operation),
		Details: map[string]any{"operation": operation},
		Err:     err,
	}
}

// DeliveryFailed marks a digest delivery failure for one sink.
func DeliveryFailed(sink string, err error) *AppError {
	return &AppError{
		Code:    CodeDeliveryFailed,
		Message: fmt.Sprintf("delivery failed: %s", sink),
		Details: map[string]any{"sink": sink},
		Err:     err,
	}
}

// AuthFailed marks an OAuth/token failure against the mail provider.
func AuthFailed(err error) *AppError {
	return &AppError{
		Code:    CodeAuthFailed,
		Message: "provider authentication failed",
		Err:     err,
	}
}

// ConfigError marks invalid or missing configuration.
func ConfigError(message string) *AppError {
	return &AppError{
		Code:    CodeConfigError,
		Message: message,
	}
}

// Helper functions
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeProviderError, "unexpected error")
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
