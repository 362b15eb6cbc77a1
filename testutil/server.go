// Package testutil provides helpers for companion client tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// CompanionServerConfig configures the stub companion server.
type CompanionServerConfig struct {
	// AllowHeaders is returned as Access-Control-Allow-Headers on
	// preflight OPTIONS requests. Empty means no header.
	AllowHeaders string
	// IAm is returned as the i-am response header on non-OPTIONS
	// requests. Empty means no header.
	IAm string
	// Status is the response status for non-OPTIONS requests; 0 means 200.
	Status int
	// Body is JSON-encoded as the response body; nil means {}.
	Body any
}

// CompanionServer is an httptest-backed companion stub that records the
// requests it serves.
type CompanionServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest captures what the stub saw for one request.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
}

// NewCompanionServer starts a stub companion server. Callers own Close.
func NewCompanionServer(cfg CompanionServerConfig) *CompanionServer {
	srv := &CompanionServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.record(r)
		if r.Method == http.MethodOptions {
			if cfg.AllowHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", cfg.AllowHeaders)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if cfg.IAm != "" {
			w.Header().Set("i-am", cfg.IAm)
		}
		w.Header().Set("Content-Type", "application/json")
		status := cfg.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		body := cfg.Body
		if body == nil {
			body = map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	return srv
}

func (s *CompanionServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
	})
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *CompanionServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent non-OPTIONS request, or false when
// none was served.
func (s *CompanionServer) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method != http.MethodOptions {
			return s.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

// OptionsCount returns how many preflight OPTIONS requests were served.
func (s *CompanionServer) OptionsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.requests {
		if r.Method == http.MethodOptions {
			count++
		}
	}
	return count
}
