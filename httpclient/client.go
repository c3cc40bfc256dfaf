package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gaborage/retrier/logger"
	"github.com/gaborage/retrier/retry"
	"github.com/gaborage/retrier/trace"
)

const (
	// DefaultTimeout is the default per-attempt timeout
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retries after the first attempt
	DefaultMaxRetries = retry.DefaultMaxRetries

	// DefaultRetryDelay is the default wait before the first retry
	DefaultRetryDelay = retry.DefaultInitialDelay

	// DefaultMaxPayloadLogBytes caps logged body previews
	DefaultMaxPayloadLogBytes = 1024
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// client implements the Client interface
type client struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	config               *Config
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	sleep                retry.Sleeper
	callCount            int64
}

// callState is shared by every attempt of one logical call
type callState struct {
	method      string
	req         *Request
	start       time.Time
	callCount   int64
	requestID   string
	traceParent string
	traceState  string
}

// NewClient creates a new REST client with default configuration
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Get performs a GET request
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch performs a PATCH request
func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete performs a DELETE request
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do performs an HTTP request with the specified method, retrying transient
// failures according to the client's retry policy.
//
// A fatal HTTP status returns the response together with an HTTPError.
// When retries run out the error is a *retry.ExhaustedError wrapping the
// last failure, and the last response (if any) is returned with it.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if err := c.validateRequest(method, req); err != nil {
		return nil, err
	}

	policy := c.retryPolicy()
	if err := policy.Validate(); err != nil {
		return nil, NewValidationError(err.Error(), "retry")
	}

	call := &callState{
		method:    method,
		req:       req,
		start:     time.Now(),
		callCount: atomic.AddInt64(&c.callCount, 1),
	}
	c.resolveTrace(ctx, call)

	return retry.Do(ctx, policy,
		func(ctx context.Context, attempt int) (*Response, error) {
			return c.attempt(ctx, call, attempt)
		},
		retry.WithSleeper(c.sleep),
		retry.WithOnRetry(func(a retry.Attempt) {
			c.logRetry(call, a)
		}),
	)
}

// attempt sends the request once
func (c *client) attempt(ctx context.Context, call *callState, attempt int) (*Response, error) {
	logger.IncrementHTTPCounter(ctx)
	attemptStart := time.Now()
	defer func() {
		logger.AddHTTPElapsed(ctx, time.Since(attemptStart).Nanoseconds())
	}()

	httpReq, err := c.buildRequest(ctx, call)
	if err != nil {
		return nil, err
	}
	c.logRequest(httpReq, call.req.Body, call.requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err)
	}

	resp, err := c.buildResponse(ctx, call, attempt, httpReq, httpResp)
	if err != nil {
		return nil, err
	}
	c.logResponse(resp, call.requestID)

	if IsErrorStatus(resp.StatusCode) {
		return resp, &httpError{
			message:    fmt.Sprintf("HTTP request failed with status %d", resp.StatusCode),
			statusCode: resp.StatusCode,
			body:       resp.Body,
			retryable:  c.isRetryableStatus(resp.StatusCode),
		}
	}
	return resp, nil
}

func (c *client) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:   c.config.MaxRetries,
		InitialDelay: c.config.RetryDelay,
		Multiplier:   c.config.BackoffMultiplier,
		MaxDelay:     c.config.MaxRetryDelay,
	}
}

// classifyTransportError maps a failed round trip onto the error taxonomy.
// Per-attempt timeouts are transient; an expired or canceled caller context
// and every other transport failure are fatal.
func (c *client) classifyTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &timeoutError{message: "request deadline exceeded", timeout: c.config.Timeout, cause: ctxErr}
		}
		return NewNetworkError("request canceled", ctxErr)
	}
	if isTimeout(err) {
		return NewTimeoutError("request timeout", c.config.Timeout)
	}
	return NewNetworkError("request execution failed", err)
}

// validateRequest validates the request before sending
func (c *client) validateRequest(method string, req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if strings.TrimSpace(method) == "" {
		return NewValidationError("method cannot be empty", "method")
	}
	if err := requestValidator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return NewValidationError(validationMessage(fe), strings.ToLower(fe.Field()))
		}
		return NewValidationError(err.Error(), "request")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

// resolveTrace picks the ids shared by all attempts of a call
func (c *client) resolveTrace(ctx context.Context, call *callState) {
	call.requestID = headerValue(call.req.Headers, c.traceIDHeader())
	if call.requestID == "" {
		call.requestID = c.traceIDFor(ctx)
	}

	if !c.config.EnableW3CTrace {
		return
	}
	if tp := headerValue(call.req.Headers, HeaderTraceParent); tp != "" {
		call.traceParent = tp
	} else if tp, ok := trace.ParentFromContext(ctx); ok && trace.ValidTraceParent(tp) {
		call.traceParent = tp
	} else {
		call.traceParent = trace.GenerateTraceParent()
	}
	if ts, ok := trace.StateFromContext(ctx); ok {
		call.traceState = ts
	}
}

func (c *client) traceIDFor(ctx context.Context) string {
	if c.config.TraceIDExtractor != nil {
		if id, ok := c.config.TraceIDExtractor(ctx); ok && id != "" {
			return id
		}
	}
	if c.config.NewTraceID != nil {
		if id := c.config.NewTraceID(); id != "" {
			return id
		}
	}
	return trace.NewID()
}

func (c *client) traceIDHeader() string {
	if c.config.TraceIDHeader != "" {
		return c.config.TraceIDHeader
	}
	return HeaderXRequestID
}

// headerValue looks a header up case-insensitively
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// applyHeaders applies headers to the HTTP request
func (c *client) applyHeaders(httpReq *nethttp.Request, call *callState) {
	// Defaults first, request-specific headers override them
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range call.req.Headers {
		httpReq.Header.Set(key, value)
	}

	if httpReq.Header.Get("Content-Type") == "" && call.req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if header := c.traceIDHeader(); httpReq.Header.Get(header) == "" {
		httpReq.Header.Set(header, call.requestID)
	}
	if call.traceParent != "" && httpReq.Header.Get(HeaderTraceParent) == "" {
		httpReq.Header.Set(HeaderTraceParent, call.traceParent)
	}
	if call.traceState != "" && httpReq.Header.Get(HeaderTraceState) == "" {
		httpReq.Header.Set(HeaderTraceState, call.traceState)
	}
}

// applyAuth applies authentication to the HTTP request
func (c *client) applyAuth(httpReq *nethttp.Request, req *Request) {
	// Request-specific auth takes precedence
	auth := req.Auth
	if auth == nil {
		auth = c.config.BasicAuth
	}

	if auth != nil {
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}
}

// buildRequest constructs a fresh *http.Request for one attempt and runs
// the request interceptors.
func (c *client) buildRequest(ctx context.Context, call *callState) (*nethttp.Request, error) {
	var body io.Reader = nethttp.NoBody
	if call.req.Body != nil {
		body = bytes.NewReader(call.req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, call.method, call.req.URL, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("cannot build request: %v", err), "url")
	}

	c.applyHeaders(httpReq, call)
	c.applyAuth(httpReq, call.req)

	if err := c.runRequestInterceptors(ctx, httpReq); err != nil {
		return nil, NewInterceptorError("request interceptor failed", "request", err)
	}
	return httpReq, nil
}

// buildResponse runs response interceptors, reads body, and builds a Response.
func (c *client) buildResponse(ctx context.Context, call *callState, attempt int, httpReq *nethttp.Request, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	if err := c.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, NewInterceptorError("response interceptor failed", "response", err)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: time.Since(call.start),
			CallCount:   call.callCount,
			Attempts:    attempt,
		},
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *client) isRetryableStatus(code int) bool {
	if c.config.RetryableStatusCodes != nil {
		return slices.Contains(c.config.RetryableStatusCodes, code)
	}
	return IsRetryableStatus(code)
}

// runRequestInterceptors executes all request interceptors
func (c *client) runRequestInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// runResponseInterceptors executes all response interceptors
func (c *client) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}
