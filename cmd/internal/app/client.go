package app

import (
	nethttp "net/http"

	"github.com/gaborage/retrier/config"
	"github.com/gaborage/retrier/httpclient"
	"github.com/gaborage/retrier/logger"
	"github.com/gaborage/retrier/retry"
)

// ClientOptions carries test seams for NewClient.
type ClientOptions struct {
	Transport nethttp.RoundTripper
	Sleeper   retry.Sleeper
}

// NewClient builds the REST client described by cfg.
func NewClient(cfg *config.Config, log logger.Logger, opts ClientOptions) httpclient.Client {
	b := httpclient.NewBuilder(log).
		WithTimeout(cfg.Client.Timeout).
		WithRetries(cfg.Retry.MaxRetries, cfg.Retry.InitialDelay).
		WithBackoffMultiplier(cfg.Retry.Multiplier).
		WithMaxRetryDelay(cfg.Retry.MaxDelay).
		WithRetryableStatusCodes(cfg.Retry.StatusCodes...).
		WithLogPayloads(cfg.Client.LogPayloads, cfg.Client.MaxPayloadLogBytes).
		WithTraceIDHeader(cfg.Client.TraceIDHeader).
		WithW3CTrace(cfg.Client.W3CTrace)

	if cfg.Client.UserAgent != "" {
		b = b.WithDefaultHeader("User-Agent", cfg.Client.UserAgent)
	}
	if opts.Transport != nil {
		b = b.WithTransport(opts.Transport)
	}
	if opts.Sleeper != nil {
		b = b.WithSleeper(opts.Sleeper)
	}
	return b.Build()
}
