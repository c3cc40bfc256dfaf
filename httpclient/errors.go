package httpclient

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// DefaultRetryableStatusCodes lists the HTTP statuses treated as transient:
// request timeout, server errors and gateway/origin timeouts.
var DefaultRetryableStatusCodes = []int{408, 500, 502, 503, 504, 522, 524}

// ClientError represents different types of REST client errors
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	NetworkError     ErrorType = "network"
	TimeoutError     ErrorType = "timeout"
	HTTPError        ErrorType = "http"
	ValidationError  ErrorType = "validation"
	InterceptorError ErrorType = "interceptor"
)

// networkError represents network-related errors. Never retried.
type networkError struct {
	message string
	wrapped error
}

func (e *networkError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("network error: %s", e.message)
}

func (e *networkError) Type() ErrorType { return NetworkError }

func (e *networkError) Unwrap() error { return e.wrapped }

func (e *networkError) Retryable() bool { return false }

// timeoutError represents an attempt that ran out of time.
// A per-attempt timeout is transient; cause is set when the caller's own
// context expired, which makes the error fatal.
type timeoutError struct {
	message string
	timeout time.Duration
	cause   error
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType { return TimeoutError }

func (e *timeoutError) Unwrap() error { return e.cause }

func (e *timeoutError) Retryable() bool { return e.cause == nil }

// httpError represents HTTP status-related errors
type httpError struct {
	message    string
	statusCode int
	body       []byte
	retryable  bool
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType { return HTTPError }

func (e *httpError) StatusCode() int { return e.statusCode }

func (e *httpError) Body() []byte { return e.body }

// Retryable reports whether the status is on the client's retry allow-list
func (e *httpError) Retryable() bool { return e.retryable }

// validationError represents request validation errors
type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }

func (e *validationError) Retryable() bool { return false }

// interceptorError represents interceptor-related errors
type interceptorError struct {
	message string
	wrapped error
	stage   string
}

func (e *interceptorError) Error() string {
	return fmt.Sprintf("interceptor error: %s (stage: %s): %v", e.message, e.stage, e.wrapped)
}

func (e *interceptorError) Type() ErrorType { return InterceptorError }

func (e *interceptorError) Unwrap() error { return e.wrapped }

func (e *interceptorError) Retryable() bool { return false }

// NewNetworkError creates a new network error
func NewNetworkError(message string, wrapped error) ClientError {
	return &networkError{
		message: message,
		wrapped: wrapped,
	}
}

// NewTimeoutError creates a new retryable timeout error
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{
		message: message,
		timeout: timeout,
	}
}

// NewHTTPError creates a new HTTP error, retryable when statusCode is in
// DefaultRetryableStatusCodes
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{
		message:    message,
		statusCode: statusCode,
		body:       body,
		retryable:  IsRetryableStatus(statusCode),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message, field string) ClientError {
	return &validationError{
		message: message,
		field:   field,
	}
}

// NewInterceptorError creates a new interceptor error
func NewInterceptorError(message, stage string, wrapped error) ClientError {
	return &interceptorError{
		message: message,
		wrapped: wrapped,
		stage:   stage,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError checks if an error is an HTTP error with a specific status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode() == statusCode
	}
	return false
}

// StatusCodeOf returns the status carried by an HTTP error anywhere in err's chain
func StatusCodeOf(err error) (int, bool) {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode(), true
	}
	return 0, false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsErrorStatus checks if a status code is surfaced as an HTTPError (4xx and 5xx)
func IsErrorStatus(statusCode int) bool {
	return statusCode >= 400
}

// IsRetryableStatus checks a status against DefaultRetryableStatusCodes
func IsRetryableStatus(statusCode int) bool {
	return slices.Contains(DefaultRetryableStatusCodes, statusCode)
}
