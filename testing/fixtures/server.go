package fixtures

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Reply is one scripted answer.
type Reply struct {
	Status int
	Body   string
	// Delay holds the response back, or until the client gives up.
	Delay time.Duration
}

// Statuses scripts replies with empty bodies.
func Statuses(codes ...int) []Reply {
	replies := make([]Reply, len(codes))
	for i, code := range codes {
		replies[i] = Reply{Status: code}
	}
	return replies
}

// RecordedRequest is a request seen by a StatusServer.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// StatusServer answers each scripted path with its replies in order,
// repeating the last one. Unscripted paths get 404.
type StatusServer struct {
	*httptest.Server

	mu       sync.Mutex
	scripts  map[string][]Reply
	hits     map[string]int
	requests []RecordedRequest
}

// NewStatusServer starts a server that is closed when the test ends.
func NewStatusServer(tb testing.TB) *StatusServer {
	tb.Helper()
	s := &StatusServer{
		scripts: make(map[string][]Reply),
		hits:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	tb.Cleanup(s.Close)
	return s
}

// Script sets the replies for path.
func (s *StatusServer) Script(path string, replies ...Reply) *StatusServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[path] = replies
	return s
}

// Endpoint returns the absolute URL of path.
func (s *StatusServer) Endpoint(path string) string {
	return s.URL + path
}

// Hits returns how many requests path received.
func (s *StatusServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Requests returns every request received so far, in arrival order.
func (s *StatusServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *StatusServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	n := s.hits[r.URL.Path]
	s.hits[r.URL.Path] = n + 1
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	replies := s.scripts[r.URL.Path]
	s.mu.Unlock()

	if len(replies) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	reply := replies[min(n, len(replies)-1)]

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply.Body)
}
