package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gaborage/retrier/trace"
)

const (
	// HeaderXRequestID is the default header carrying the per-call trace id
	HeaderXRequestID = trace.HeaderXRequestID
	// HeaderTraceParent is the W3C trace context header name
	HeaderTraceParent = trace.HeaderTraceParent
	// HeaderTraceState is the W3C trace context "tracestate" header name
	HeaderTraceState = trace.HeaderTraceState
)

// Client defines the REST client interface. Every method runs one logical
// call, which may span several attempts when the failure is transient.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request describes the target of a call. Body is re-sent on every attempt.
type Request struct {
	URL     string `validate:"required,url"`
	Headers map[string]string
	Body    []byte
	Auth    *BasicAuth
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics.
// ElapsedTime covers every attempt and wait of the logical call.
type Stats struct {
	ElapsedTime time.Duration
	CallCount   int64
	Attempts    int
}

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor is called before sending each attempt
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving each attempt's response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the REST client configuration
type Config struct {
	// Timeout bounds a single attempt; the caller's context bounds the whole call
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// RetryDelay is the wait before the first retry
	RetryDelay time.Duration
	// BackoffMultiplier grows the wait between consecutive retries (default 2)
	BackoffMultiplier float64
	// MaxRetryDelay caps the wait between retries; zero leaves growth unbounded
	MaxRetryDelay time.Duration
	// RetryableStatusCodes overrides DefaultRetryableStatusCodes
	RetryableStatusCodes []int
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	BasicAuth            *BasicAuth
	DefaultHeaders       map[string]string
	// LogPayloads enables debug-level logging of headers and body payloads
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
	// TraceIDHeader configures the header name used for trace ID propagation (default: X-Request-ID)
	TraceIDHeader string
	// NewTraceID generates a new trace ID when none is present (default: uuid)
	NewTraceID func() string
	// TraceIDExtractor pulls a trace ID from context; return ok=false to fall back to NewTraceID
	TraceIDExtractor func(ctx context.Context) (traceID string, ok bool)
	// EnableW3CTrace enables W3C Trace Context (traceparent/tracestate) propagation and generation
	EnableW3CTrace bool
}

// WithTraceID adds a trace ID to the context for HTTP client propagation
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return trace.WithTraceID(ctx, traceID)
}

// TraceIDFromContext returns a trace ID from context if present
func TraceIDFromContext(ctx context.Context) (string, bool) { return trace.IDFromContext(ctx) }

// EnsureTraceID returns an existing trace ID from context or generates a new one
func EnsureTraceID(ctx context.Context) string { return trace.EnsureTraceID(ctx) }

// WithTraceParent adds a W3C traceparent value to the context
func WithTraceParent(ctx context.Context, traceParent string) context.Context {
	return trace.WithTraceParent(ctx, traceParent)
}

// WithTraceState adds a W3C tracestate value to the context
func WithTraceState(ctx context.Context, traceState string) context.Context {
	return trace.WithTraceState(ctx, traceState)
}

// NewTraceIDInterceptorFor creates an interceptor that stamps the context's
// trace id on header when the request does not carry one yet.
// An empty header name means X-Request-ID.
func NewTraceIDInterceptorFor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, EnsureTraceID(ctx))
		}
		return nil
	}
}
