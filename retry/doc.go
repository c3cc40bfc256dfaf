// Package retry runs an operation as a bounded sequence of attempts with
// exponential backoff between them.
//
// A sequence issues the operation, returns at once on success, and on a
// retryable failure waits for the current backoff before trying again. The
// backoff starts at Policy.InitialDelay and is multiplied by
// Policy.Multiplier (2 by default) after every retry, so the delay before
// retry n is InitialDelay * 2^(n-1). Non-retryable failures are returned
// immediately; once Policy.MaxRetries retries are spent the last failure is
// returned wrapped in an *ExhaustedError.
//
// Growth is unbounded unless Policy.MaxDelay is set. No jitter is applied.
//
// The wait step is the only suspension point. It goes through a Sleeper,
// which honors context cancellation and can be replaced in tests.
package retry
