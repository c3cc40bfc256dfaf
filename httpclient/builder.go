package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gaborage/retrier/logger"
	"github.com/gaborage/retrier/retry"
	"github.com/gaborage/retrier/trace"
)

// Builder provides a fluent interface for configuring the REST client
type Builder struct {
	config     *Config
	logger     logger.Logger
	httpClient *nethttp.Client
	transport  nethttp.RoundTripper
	sleep      retry.Sleeper
}

// NewBuilder creates a new client builder with the default retry policy:
// three retries, 300ms initial delay, doubling.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			Timeout:              DefaultTimeout,
			MaxRetries:           DefaultMaxRetries,
			RetryDelay:           DefaultRetryDelay,
			BackoffMultiplier:    retry.DefaultMultiplier,
			RequestInterceptors:  []RequestInterceptor{},
			ResponseInterceptors: []ResponseInterceptor{},
			DefaultHeaders:       make(map[string]string),
			MaxPayloadLogBytes:   DefaultMaxPayloadLogBytes,
			TraceIDHeader:        HeaderXRequestID,
			NewTraceID:           trace.NewID,
			TraceIDExtractor:     trace.IDFromContext,
			EnableW3CTrace:       true,
		},
		logger: log,
	}
}

// WithTimeout sets the per-attempt timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetries sets the retry count and the delay before the first retry
func (b *Builder) WithRetries(maxRetries int, retryDelay time.Duration) *Builder {
	b.config.MaxRetries = maxRetries
	b.config.RetryDelay = retryDelay
	return b
}

// WithBackoffMultiplier sets the growth factor between consecutive retry delays
func (b *Builder) WithBackoffMultiplier(multiplier float64) *Builder {
	b.config.BackoffMultiplier = multiplier
	return b
}

// WithMaxRetryDelay caps the delay between retries. Zero disables the cap.
func (b *Builder) WithMaxRetryDelay(maxDelay time.Duration) *Builder {
	b.config.MaxRetryDelay = maxDelay
	return b
}

// WithRetryableStatusCodes replaces the status allow-list
func (b *Builder) WithRetryableStatusCodes(codes ...int) *Builder {
	b.config.RetryableStatusCodes = append([]int{}, codes...)
	return b
}

// WithBasicAuth sets basic authentication credentials
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{
		Username: username,
		Password: password,
	}
	return b
}

// WithDefaultHeader adds a default header that will be sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithHTTPClient uses a caller-provided *http.Client. Its Timeout is
// replaced by the builder's timeout when the client does not set one.
func (b *Builder) WithHTTPClient(hc *nethttp.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithTransport sets the RoundTripper of the underlying *http.Client
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithLogPayloads enables debug payload logging, previewing at most maxBytes
// of each body (the default when maxBytes <= 0).
func (b *Builder) WithLogPayloads(enabled bool, maxBytes int) *Builder {
	b.config.LogPayloads = enabled
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithTraceIDHeader sets the header used to propagate the trace id
func (b *Builder) WithTraceIDHeader(header string) *Builder {
	if header != "" {
		b.config.TraceIDHeader = header
	}
	return b
}

// WithTraceIDGenerator sets the generator used when no trace id is found
func (b *Builder) WithTraceIDGenerator(gen func() string) *Builder {
	if gen != nil {
		b.config.NewTraceID = gen
	}
	return b
}

// WithTraceIDExtractor sets how a trace id is read from the call context
func (b *Builder) WithTraceIDExtractor(fn func(ctx context.Context) (string, bool)) *Builder {
	if fn != nil {
		b.config.TraceIDExtractor = fn
	}
	return b
}

// WithW3CTrace toggles traceparent/tracestate propagation
func (b *Builder) WithW3CTrace(enabled bool) *Builder {
	b.config.EnableW3CTrace = enabled
	return b
}

// WithSleeper replaces the wait between retries, mainly for tests
func (b *Builder) WithSleeper(s retry.Sleeper) *Builder {
	b.sleep = s
	return b
}

// Build creates the REST client with the configured options
func (b *Builder) Build() Client {
	hc := b.httpClient
	if hc == nil {
		hc = &nethttp.Client{Timeout: b.config.Timeout}
	} else if hc.Timeout == 0 {
		clone := *hc
		clone.Timeout = b.config.Timeout
		hc = &clone
	}
	if b.transport != nil {
		clone := *hc
		clone.Transport = b.transport
		hc = &clone
	}

	return &client{
		httpClient:           hc,
		logger:               b.logger,
		config:               b.config,
		requestInterceptors:  b.config.RequestInterceptors,
		responseInterceptors: b.config.ResponseInterceptors,
		sleep:                b.sleep,
	}
}
