package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/retrier/logger"
	"github.com/gaborage/retrier/retry"
	"github.com/gaborage/retrier/trace"
)

const testTraceParent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

// sequenceServer answers with statuses in order, repeating the last one
type sequenceServer struct {
	mu       sync.Mutex
	statuses []int
	hits     int
	headers  []nethttp.Header
	bodies   [][]byte
	methods  []string
}

func (s *sequenceServer) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	idx := min(s.hits, len(s.statuses)-1)
	s.hits++
	s.headers = append(s.headers, r.Header.Clone())
	s.bodies = append(s.bodies, body)
	s.methods = append(s.methods, r.Method)
	status := s.statuses[idx]
	s.mu.Unlock()

	w.WriteHeader(status)
	_, _ = w.Write([]byte(nethttp.StatusText(status)))
}

func (s *sequenceServer) hitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func startSequence(t *testing.T, statuses ...int) (*sequenceServer, string) {
	t.Helper()
	seq := &sequenceServer{statuses: statuses}
	srv := newIPv4TestServer(t, seq)
	return seq, srv.URL
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestNewClientDefaults(t *testing.T) {
	c, ok := NewClient(&fakeLogger{}).(*client)
	require.True(t, ok)

	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, 3, c.config.MaxRetries)
	assert.Equal(t, 300*time.Millisecond, c.config.RetryDelay)
	assert.Equal(t, 2.0, c.config.BackoffMultiplier)
	assert.Zero(t, c.config.MaxRetryDelay)
	assert.Nil(t, c.config.RetryableStatusCodes)
	assert.Equal(t, DefaultMaxPayloadLogBytes, c.config.MaxPayloadLogBytes)
	assert.Equal(t, HeaderXRequestID, c.config.TraceIDHeader)
	assert.True(t, c.config.EnableW3CTrace)
	assert.False(t, c.config.LogPayloads)
}

func TestClientSuccessOnFirstAttempt(t *testing.T) {
	seq, url := startSequence(t, nethttp.StatusOK)
	sleeper := &recordingSleeper{}
	c := NewBuilder(&fakeLogger{}).WithSleeper(sleeper.Sleep).Build()

	resp, err := c.Get(context.Background(), &Request{URL: url})

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(resp.Body))
	assert.Equal(t, 1, resp.Stats.Attempts)
	assert.Equal(t, int64(1), resp.Stats.CallCount)
	assert.Equal(t, 1, seq.hitCount())
	assert.Empty(t, sleeper.recorded())
}

func TestClientRetriesAllowListedStatuses(t *testing.T) {
	for _, code := range DefaultRetryableStatusCodes {
		t.Run(fmt.Sprintf("status_%d", code), func(t *testing.T) {
			seq, url := startSequence(t, code)
			sleeper := &recordingSleeper{}
			log := &fakeLogger{}
			c := NewBuilder(log).WithSleeper(sleeper.Sleep).Build()

			resp, err := c.Get(context.Background(), &Request{URL: url})

			var exhausted *retry.ExhaustedError
			require.ErrorAs(t, err, &exhausted)
			assert.Equal(t, 4, exhausted.Attempts)
			assert.True(t, IsHTTPStatusError(err, code))
			require.NotNil(t, resp)
			assert.Equal(t, code, resp.StatusCode)
			assert.Equal(t, 4, resp.Stats.Attempts)

			assert.Equal(t, 4, seq.hitCount())
			assert.Equal(t, []time.Duration{
				300 * time.Millisecond,
				600 * time.Millisecond,
				1200 * time.Millisecond,
			}, sleeper.recorded())
			assert.Len(t, log.eventsByLevel("warn"), 3)
		})
	}
}

func TestClientRecoversAfterTransientFailures(t *testing.T) {
	seq, url := startSequence(t, nethttp.StatusServiceUnavailable, nethttp.StatusGatewayTimeout, nethttp.StatusOK)
	sleeper := &recordingSleeper{}
	log := &fakeLogger{}
	c := NewBuilder(log).WithSleeper(sleeper.Sleep).Build()

	resp, err := c.Get(context.Background(), &Request{URL: url})

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, resp.Stats.Attempts)
	assert.Equal(t, 3, seq.hitCount())
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 600 * time.Millisecond}, sleeper.recorded())

	assert.Len(t, log.eventsByLevel("info"), 6)
	warns := log.eventsByLevel("warn")
	require.Len(t, warns, 2)
	assert.Equal(t, 503, warns[0].fields["status"])
	assert.Equal(t, 504, warns[1].fields["status"])
}

func TestClientFatalStatusIsNotRetried(t *testing.T) {
	for _, code := range []int{400, 401, 403, 404, 409, 429, 501, 505} {
		t.Run(fmt.Sprintf("status_%d", code), func(t *testing.T) {
			seq, url := startSequence(t, code)
			sleeper := &recordingSleeper{}
			c := NewBuilder(&fakeLogger{}).WithSleeper(sleeper.Sleep).Build()

			resp, err := c.Get(context.Background(), &Request{URL: url})

			require.Error(t, err)
			assert.True(t, IsHTTPStatusError(err, code))
			var exhausted *retry.ExhaustedError
			assert.False(t, errors.As(err, &exhausted))
			require.NotNil(t, resp)
			assert.Equal(t, code, resp.StatusCode)
			assert.Equal(t, 1, seq.hitCount())
			assert.Empty(t, sleeper.recorded())
		})
	}
}

func TestClientCustomRetryableStatusCodes(t *testing.T) {
	t.Run("listed status is retried", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusTooManyRequests)
		sleeper := &recordingSleeper{}
		c := NewBuilder(&fakeLogger{}).
			WithRetries(2, 10*time.Millisecond).
			WithRetryableStatusCodes(nethttp.StatusTooManyRequests).
			WithSleeper(sleeper.Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		assert.True(t, IsHTTPStatusError(err, 429))
		assert.Equal(t, 3, seq.hitCount())
		assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, sleeper.recorded())
	})

	t.Run("default statuses are no longer retried", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable)
		c := NewBuilder(&fakeLogger{}).
			WithRetryableStatusCodes(nethttp.StatusTooManyRequests).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		assert.True(t, IsHTTPStatusError(err, 503))
		assert.Equal(t, 1, seq.hitCount())
	})
}

func TestClientBackoffSchedule(t *testing.T) {
	t.Run("multiplier and cap", func(t *testing.T) {
		_, url := startSequence(t, nethttp.StatusBadGateway)
		sleeper := &recordingSleeper{}
		c := NewBuilder(&fakeLogger{}).
			WithRetries(4, 100*time.Millisecond).
			WithBackoffMultiplier(3).
			WithMaxRetryDelay(500 * time.Millisecond).
			WithSleeper(sleeper.Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		require.Error(t, err)
		assert.Equal(t, []time.Duration{
			100 * time.Millisecond,
			300 * time.Millisecond,
			500 * time.Millisecond,
			500 * time.Millisecond,
		}, sleeper.recorded())
	})

	t.Run("zero retries makes a single attempt", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable)
		sleeper := &recordingSleeper{}
		c := NewBuilder(&fakeLogger{}).WithRetries(0, time.Second).WithSleeper(sleeper.Sleep).Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		var exhausted *retry.ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 1, exhausted.Attempts)
		assert.Equal(t, 1, seq.hitCount())
		assert.Empty(t, sleeper.recorded())
	})

	t.Run("negative retries are rejected", func(t *testing.T) {
		c := NewBuilder(&fakeLogger{}).WithRetries(-1, time.Second).Build()

		_, err := c.Get(context.Background(), &Request{URL: "http://example.com"})

		assert.True(t, IsErrorType(err, ValidationError))
		assert.ErrorContains(t, err, "retry")
	})
}

func TestClientTransportFailures(t *testing.T) {
	t.Run("timeouts are retried", func(t *testing.T) {
		var calls atomic.Int32
		sleeper := &recordingSleeper{}
		c := NewBuilder(&fakeLogger{}).
			WithRetries(2, 5*time.Millisecond).
			WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
				calls.Add(1)
				return nil, timeoutErr{}
			})).
			WithSleeper(sleeper.Sleep).
			Build()

		resp, err := c.Get(context.Background(), &Request{URL: "http://example.com"})

		assert.Nil(t, resp)
		assert.True(t, IsErrorType(err, TimeoutError))
		var exhausted *retry.ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, []time.Duration{5 * time.Millisecond, 10 * time.Millisecond}, sleeper.recorded())
	})

	t.Run("other network errors are fatal", func(t *testing.T) {
		var calls atomic.Int32
		c := NewBuilder(&fakeLogger{}).
			WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
				calls.Add(1)
				return nil, errors.New("connection refused")
			})).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: "http://example.com"})

		assert.True(t, IsErrorType(err, NetworkError))
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server side timeout is retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := newIPv4TestServer(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			hits.Add(1)
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		c := NewBuilder(&fakeLogger{}).
			WithTimeout(50*time.Millisecond).
			WithRetries(1, time.Millisecond).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: srv.URL})

		assert.True(t, IsErrorType(err, TimeoutError))
		assert.Eventually(t, func() bool { return hits.Load() == 2 }, time.Second, 10*time.Millisecond)
	})
}

func TestClientContextCancellation(t *testing.T) {
	t.Run("canceled before the first attempt", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusOK)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient(&fakeLogger{}).Get(ctx, &Request{URL: url})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, seq.hitCount())
	})

	t.Run("canceled during the wait", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		c := NewBuilder(&fakeLogger{}).
			WithSleeper(func(ctx context.Context, _ time.Duration) error {
				cancel()
				return ctx.Err()
			}).
			Build()

		resp, err := c.Get(ctx, &Request{URL: url})

		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, IsHTTPStatusError(err, 503))
		require.NotNil(t, resp)
		assert.Equal(t, 1, seq.hitCount())
	})

	t.Run("canceled during an attempt is fatal", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var calls atomic.Int32
		c := NewBuilder(&fakeLogger{}).
			WithTransport(roundTripperFunc(func(r *nethttp.Request) (*nethttp.Response, error) {
				calls.Add(1)
				cancel()
				return nil, r.Context().Err()
			})).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()

		_, err := c.Get(ctx, &Request{URL: "http://example.com"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, IsErrorType(err, NetworkError))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("caller deadline is not retried", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		var calls atomic.Int32
		c := NewBuilder(&fakeLogger{}).
			WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
				calls.Add(1)
				return nil, timeoutErr{}
			})).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()
		expired, stop := context.WithDeadline(ctx, time.Now().Add(-time.Second))
		defer stop()

		_, err := c.(*client).attempt(expired, &callState{method: nethttp.MethodGet, req: &Request{URL: "http://example.com"}}, 1)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, IsErrorType(err, TimeoutError))
		assert.False(t, retry.IsRetryable(err))
	})
}

func TestClientResendsBodyOnEachAttempt(t *testing.T) {
	seq, url := startSequence(t, nethttp.StatusBadGateway, nethttp.StatusCreated)
	c := NewBuilder(&fakeLogger{}).WithSleeper((&recordingSleeper{}).Sleep).Build()
	body := []byte(`{"name":"widget"}`)

	resp, err := c.Post(context.Background(), &Request{URL: url, Body: body})

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	require.Len(t, seq.bodies, 2)
	assert.Equal(t, body, seq.bodies[0])
	assert.Equal(t, body, seq.bodies[1])
	assert.Equal(t, "application/json", seq.headers[1].Get("Content-Type"))
}

func TestClientTracePropagation(t *testing.T) {
	t.Run("one trace id shared by all attempts", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable, nethttp.StatusOK)
		c := NewBuilder(&fakeLogger{}).WithSleeper((&recordingSleeper{}).Sleep).Build()
		ctx := WithTraceID(context.Background(), "trace-abc")

		_, err := c.Get(ctx, &Request{URL: url})

		require.NoError(t, err)
		require.Len(t, seq.headers, 2)
		for _, h := range seq.headers {
			assert.Equal(t, "trace-abc", h.Get(HeaderXRequestID))
		}
		tp := seq.headers[0].Get(HeaderTraceParent)
		assert.True(t, trace.ValidTraceParent(tp))
		assert.Equal(t, tp, seq.headers[1].Get(HeaderTraceParent))
	})

	t.Run("generated id is shared too", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable, nethttp.StatusOK)
		c := NewBuilder(&fakeLogger{}).WithSleeper((&recordingSleeper{}).Sleep).Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		require.NoError(t, err)
		first := seq.headers[0].Get(HeaderXRequestID)
		assert.NotEmpty(t, first)
		assert.Equal(t, first, seq.headers[1].Get(HeaderXRequestID))
	})

	t.Run("request header wins", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusOK)
		log := &fakeLogger{}
		c := NewBuilder(log).Build()

		_, err := c.Get(WithTraceID(context.Background(), "ctx-id"), &Request{
			URL:     url,
			Headers: map[string]string{"x-request-id": "explicit-id"},
		})

		require.NoError(t, err)
		assert.Equal(t, "explicit-id", seq.headers[0].Get(HeaderXRequestID))
		assert.Equal(t, "explicit-id", log.eventsByLevel("info")[0].fields["request_id"])
	})

	t.Run("custom header and generator", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusOK)
		c := NewBuilder(&fakeLogger{}).
			WithTraceIDHeader("X-Correlation-ID").
			WithTraceIDGenerator(func() string { return "generated-1" }).
			WithTraceIDExtractor(func(context.Context) (string, bool) { return "", false }).
			Build()

		_, err := c.Get(WithTraceID(context.Background(), "ignored"), &Request{URL: url})

		require.NoError(t, err)
		assert.Equal(t, "generated-1", seq.headers[0].Get("X-Correlation-ID"))
		assert.Empty(t, seq.headers[0].Get(HeaderXRequestID))
	})

	t.Run("traceparent and tracestate from context", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusOK)
		c := NewClient(&fakeLogger{})
		ctx := WithTraceState(WithTraceParent(context.Background(), testTraceParent), "vendor=1")

		_, err := c.Get(ctx, &Request{URL: url})

		require.NoError(t, err)
		assert.Equal(t, testTraceParent, seq.headers[0].Get(HeaderTraceParent))
		assert.Equal(t, "vendor=1", seq.headers[0].Get(HeaderTraceState))
	})

	t.Run("w3c disabled", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusOK)
		c := NewBuilder(&fakeLogger{}).WithW3CTrace(false).Build()

		_, err := c.Get(WithTraceParent(context.Background(), testTraceParent), &Request{URL: url})

		require.NoError(t, err)
		assert.Empty(t, seq.headers[0].Get(HeaderTraceParent))
	})
}

func TestClientValidation(t *testing.T) {
	var calls atomic.Int32
	c := NewBuilder(&fakeLogger{}).
		WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
			calls.Add(1)
			return nil, errors.New("unexpected call")
		})).
		Build()

	tests := []struct {
		name   string
		method string
		req    *Request
		field  string
	}{
		{"nil request", nethttp.MethodGet, nil, "request"},
		{"empty URL", nethttp.MethodGet, &Request{}, "url"},
		{"relative URL", nethttp.MethodGet, &Request{URL: "not-a-url"}, "url"},
		{"empty method", " ", &Request{URL: "http://example.com"}, "method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Do(context.Background(), tt.method, tt.req)

			assert.True(t, IsErrorType(err, ValidationError))
			var verr *validationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.field)
		})
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestClientInterceptors(t *testing.T) {
	t.Run("request interceptor runs on every attempt", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable, nethttp.StatusOK)
		var runs atomic.Int32
		c := NewBuilder(&fakeLogger{}).
			WithRequestInterceptor(func(_ context.Context, r *nethttp.Request) error {
				runs.Add(1)
				r.Header.Set("X-Intercepted", "yes")
				return nil
			}).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		require.NoError(t, err)
		assert.Equal(t, int32(2), runs.Load())
		assert.Equal(t, "yes", seq.headers[1].Get("X-Intercepted"))
	})

	t.Run("request interceptor error is fatal", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusOK)
		c := NewBuilder(&fakeLogger{}).
			WithRequestInterceptor(func(context.Context, *nethttp.Request) error {
				return errors.New("missing token")
			}).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		assert.True(t, IsErrorType(err, InterceptorError))
		assert.ErrorContains(t, err, "missing token")
		assert.Equal(t, 0, seq.hitCount())
	})

	t.Run("response interceptor error is fatal", func(t *testing.T) {
		seq, url := startSequence(t, nethttp.StatusServiceUnavailable)
		c := NewBuilder(&fakeLogger{}).
			WithResponseInterceptor(func(context.Context, *nethttp.Request, *nethttp.Response) error {
				return errors.New("bad signature")
			}).
			WithSleeper((&recordingSleeper{}).Sleep).
			Build()

		_, err := c.Get(context.Background(), &Request{URL: url})

		assert.True(t, IsErrorType(err, InterceptorError))
		assert.Equal(t, 1, seq.hitCount())
	})
}

func TestClientHeadersAndAuth(t *testing.T) {
	seq, url := startSequence(t, nethttp.StatusOK)
	c := NewBuilder(&fakeLogger{}).
		WithDefaultHeader("User-Agent", "retrier-test").
		WithDefaultHeader("X-API-Key", "default").
		WithBasicAuth("builder", "secret").
		Build()

	_, err := c.Get(context.Background(), &Request{
		URL:     url,
		Headers: map[string]string{"X-API-Key": "override"},
	})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), &Request{URL: url, Auth: &BasicAuth{Username: "request", Password: "pw"}})
	require.NoError(t, err)

	first := &nethttp.Request{Header: seq.headers[0]}
	user, _, ok := first.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "builder", user)
	assert.Equal(t, "retrier-test", seq.headers[0].Get("User-Agent"))
	assert.Equal(t, "override", seq.headers[0].Get("X-API-Key"))
	assert.Empty(t, seq.headers[0].Get("Content-Type"))

	second := &nethttp.Request{Header: seq.headers[1]}
	user, _, ok = second.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "request", user)
}

func TestClientMethods(t *testing.T) {
	seq, url := startSequence(t, nethttp.StatusOK)
	c := NewClient(&fakeLogger{})
	ctx := context.Background()
	req := &Request{URL: url}

	calls := []func(context.Context, *Request) (*Response, error){c.Get, c.Post, c.Put, c.Patch, c.Delete}
	for _, call := range calls {
		_, err := call(ctx, req)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE"}, seq.methods)
}

func TestClientCountsAttempts(t *testing.T) {
	_, url := startSequence(t, nethttp.StatusRequestTimeout, nethttp.StatusOK)
	c := NewBuilder(&fakeLogger{}).WithSleeper((&recordingSleeper{}).Sleep).Build()
	ctx := logger.WithHTTPCounter(context.Background())

	resp, err := c.Get(ctx, &Request{URL: url})
	require.NoError(t, err)
	assert.Equal(t, int64(2), logger.GetHTTPCounter(ctx))
	assert.Positive(t, logger.GetHTTPElapsed(ctx))

	resp2, err := c.Get(ctx, &Request{URL: url})
	require.NoError(t, err)
	assert.Equal(t, resp.Stats.CallCount+1, resp2.Stats.CallCount)
}

func TestBuilderHTTPClientOptions(t *testing.T) {
	t.Run("custom client inherits builder timeout", func(t *testing.T) {
		hc := &nethttp.Client{}
		c := NewBuilder(&fakeLogger{}).WithTimeout(7 * time.Second).WithHTTPClient(hc).Build().(*client)

		assert.Equal(t, 7*time.Second, c.httpClient.Timeout)
		assert.Zero(t, hc.Timeout)
	})

	t.Run("custom client timeout is kept", func(t *testing.T) {
		hc := &nethttp.Client{Timeout: time.Second}
		c := NewBuilder(&fakeLogger{}).WithHTTPClient(hc).Build().(*client)

		assert.Same(t, hc, c.httpClient)
	})

	t.Run("transport is used", func(t *testing.T) {
		var seen string
		c := NewBuilder(&fakeLogger{}).
			WithTransport(roundTripperFunc(func(r *nethttp.Request) (*nethttp.Response, error) {
				seen = r.URL.String()
				return &nethttp.Response{
					StatusCode: nethttp.StatusOK,
					Header:     nethttp.Header{},
					Body:       io.NopCloser(strings.NewReader("stubbed")),
					Request:    r,
				}, nil
			})).
			Build()

		resp, err := c.Get(context.Background(), &Request{URL: "http://stub.local/path"})

		require.NoError(t, err)
		assert.Equal(t, "http://stub.local/path", seen)
		assert.Equal(t, "stubbed", string(resp.Body))
	})

	t.Run("payload logging option", func(t *testing.T) {
		c := NewBuilder(&fakeLogger{}).WithLogPayloads(true, 0).Build().(*client)
		assert.True(t, c.config.LogPayloads)
		assert.Equal(t, DefaultMaxPayloadLogBytes, c.config.MaxPayloadLogBytes)

		c = NewBuilder(&fakeLogger{}).WithLogPayloads(true, 64).Build().(*client)
		assert.Equal(t, 64, c.config.MaxPayloadLogBytes)
	})
}
