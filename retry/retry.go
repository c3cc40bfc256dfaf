package retry

import (
	"context"
	"fmt"
	"time"
)

// Operation is one attempt of a sequence. attempt starts at 1.
type Operation[T any] func(ctx context.Context, attempt int) (T, error)

// Classifier decides whether a failed attempt may be retried.
type Classifier func(err error) bool

// Attempt describes a failed attempt that is about to be retried.
type Attempt struct {
	// Number is the 1-based attempt that failed.
	Number int
	// Remaining is the number of retries left after this one.
	Remaining int
	// Delay is the wait before the next attempt.
	Delay time.Duration
	// Err is the failure being retried.
	Err error
}

// Option customizes a single Do call.
type Option func(*options)

type options struct {
	sleep    Sleeper
	classify Classifier
	onRetry  func(Attempt)
}

// WithSleeper replaces the suspension step.
func WithSleeper(s Sleeper) Option {
	return func(o *options) {
		if s != nil {
			o.sleep = s
		}
	}
}

// WithClassifier replaces IsRetryable.
func WithClassifier(c Classifier) Option {
	return func(o *options) {
		if c != nil {
			o.classify = c
		}
	}
}

// WithOnRetry registers a callback invoked before every wait.
func WithOnRetry(fn func(Attempt)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// policy runs out of retries. Attempts never overlap: the next one starts
// only after the previous returned and its delay elapsed.
//
// On failure the value returned by the last attempt is passed through with
// the error, so callers can inspect a partial result such as an HTTP
// response. Exhaustion yields an *ExhaustedError wrapping the last failure;
// a context canceled during the wait yields an error matching both the
// context error and the last failure.
func Do[T any](ctx context.Context, p Policy, op Operation[T], opts ...Option) (T, error) {
	var zero T
	if err := p.Validate(); err != nil {
		return zero, err
	}

	o := options{sleep: SleepContext, classify: IsRetryable}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	backoff := p.NewBackoff()
	for attempt := 1; ; attempt++ {
		val, err := op(ctx, attempt)
		if err == nil {
			return val, nil
		}

		if !o.classify(err) {
			return val, err
		}

		delay, ok := backoff.Next()
		if !ok {
			return val, &ExhaustedError{Attempts: attempt, Err: err}
		}

		if o.onRetry != nil {
			o.onRetry(Attempt{
				Number:    attempt,
				Remaining: backoff.Remaining(),
				Delay:     delay,
				Err:       err,
			})
		}

		if serr := o.sleep(ctx, delay); serr != nil {
			return val, fmt.Errorf("retry aborted after attempt %d: %w (last error: %w)", attempt, serr, err)
		}
	}
}
