// Package httpclient is a REST client whose calls retry transient failures
// with exponential backoff.
//
// Retries
//   - Configured through Builder.WithRetries(maxRetries, retryDelay); the
//     defaults are three retries and 300ms.
//   - Retried: per-attempt timeouts and the statuses in
//     DefaultRetryableStatusCodes (408, 500, 502, 503, 504, 522, 524), or the
//     list given to Builder.WithRetryableStatusCodes.
//   - Never retried: other 4xx/5xx statuses, transport failures other than
//     timeouts, validation and interceptor errors, and a canceled or expired
//     caller context.
//
// Backoff
//   - The delay before retry n is retryDelay * multiplier^(n-1); the
//     multiplier defaults to 2. Growth is unbounded unless
//     Builder.WithMaxRetryDelay sets a cap. No jitter is applied.
//
// Errors
//   - A fatal status returns the *Response together with an HTTPError.
//   - When retries run out the error is a *retry.ExhaustedError wrapping the
//     final failure; IsErrorType and IsHTTPStatusError see through it.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each attempt.
//   - All attempts of one call share a single trace id.
package httpclient
