package httpclient

import (
	"context"
	"maps"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gaborage/retrier/logger"
)

type loggedEvent struct {
	level   string
	fields  map[string]any
	message string
}

// fakeLogger records every emitted event
type fakeLogger struct {
	mu     sync.Mutex
	events []loggedEvent
}

func (l *fakeLogger) event(level string) logger.LogEvent {
	return &fakeLogEvent{logger: l, level: level, fields: map[string]any{}}
}

func (l *fakeLogger) Info() logger.LogEvent                     { return l.event("info") }
func (l *fakeLogger) Error() logger.LogEvent                    { return l.event("error") }
func (l *fakeLogger) Debug() logger.LogEvent                    { return l.event("debug") }
func (l *fakeLogger) Warn() logger.LogEvent                     { return l.event("warn") }
func (l *fakeLogger) Fatal() logger.LogEvent                    { return l.event("fatal") }
func (l *fakeLogger) WithContext(_ any) logger.Logger           { return l }
func (l *fakeLogger) WithFields(_ map[string]any) logger.Logger { return l }

func (l *fakeLogger) eventsByLevel(level string) []loggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []loggedEvent
	for _, e := range l.events {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

type fakeLogEvent struct {
	logger *fakeLogger
	level  string
	fields map[string]any
}

func (e *fakeLogEvent) set(key string, v any) logger.LogEvent {
	e.fields[key] = v
	return e
}

func (e *fakeLogEvent) Msg(msg string) {
	e.logger.mu.Lock()
	defer e.logger.mu.Unlock()
	e.logger.events = append(e.logger.events, loggedEvent{level: e.level, fields: maps.Clone(e.fields), message: msg})
}

func (e *fakeLogEvent) Msgf(format string, _ ...any)                  { e.Msg(format) }
func (e *fakeLogEvent) Err(err error) logger.LogEvent                 { return e.set("error", err) }
func (e *fakeLogEvent) Str(key, value string) logger.LogEvent         { return e.set(key, value) }
func (e *fakeLogEvent) Int(key string, value int) logger.LogEvent     { return e.set(key, value) }
func (e *fakeLogEvent) Int64(key string, value int64) logger.LogEvent { return e.set(key, value) }
func (e *fakeLogEvent) Uint64(key string, v uint64) logger.LogEvent   { return e.set(key, v) }
func (e *fakeLogEvent) Dur(key string, d time.Duration) logger.LogEvent {
	return e.set(key, d)
}
func (e *fakeLogEvent) Interface(key string, i any) logger.LogEvent { return e.set(key, i) }
func (e *fakeLogEvent) Bytes(key string, val []byte) logger.LogEvent {
	return e.set(key, val)
}

// recordingSleeper captures requested waits without sleeping
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

func (s *recordingSleeper) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func newIPv4TestServer(t *testing.T, handler nethttp.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &nethttp.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

type roundTripperFunc func(*nethttp.Request) (*nethttp.Response, error)

func (f roundTripperFunc) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	return f(req)
}
