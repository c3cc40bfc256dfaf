package retry

import (
	"context"
	"errors"
	"fmt"
)

// ExhaustedError is returned when every allowed attempt failed with a
// retryable error. Err is the failure of the last attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// retryabler is implemented by errors that classify themselves
type retryabler interface {
	Retryable() bool
}

type markedError struct {
	err       error
	retryable bool
}

func (e *markedError) Error() string   { return e.err.Error() }
func (e *markedError) Unwrap() error   { return e.err }
func (e *markedError) Retryable() bool { return e.retryable }

// Retryable marks err as transient. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &markedError{err: err, retryable: true}
}

// Permanent marks err as fatal so it is never retried. A nil error stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &markedError{err: err, retryable: false}
}

// IsRetryable is the default Classifier. Context cancellation is always fatal;
// otherwise the outermost error in the chain that implements
// Retryable() bool decides. Unclassified errors are fatal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var r retryabler
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}
