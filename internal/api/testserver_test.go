package api

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/shopfront/internal/log"
	"github.com/felixgeelhaar/shopfront/internal/session"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// newTestServer starts an HTTP server bound to IPv4-only loopback so tests work
// inside restricted sandboxes that forbid IPv6 listeners.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

func newTokens() (*session.TokenCache, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return session.NewTokenCache(store), store
}

func newTestClient(t *testing.T, baseURL string, tokens TokenStore, opts ...Option) *Client {
	t.Helper()
	defaults := []Option{
		WithRetry(0, time.Millisecond, 5*time.Millisecond),
		WithTimeout(5 * time.Second),
		WithLogger(log.Nop()),
	}
	return NewClient(baseURL, tokens, append(defaults, opts...)...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type observation struct {
	endpoint Endpoint
	method   string
	status   int
	kind     string
}

type recordingObserver struct {
	calls []observation
}

func (r *recordingObserver) ObserveAPICall(endpoint Endpoint, method string, status int, kind string, _ time.Duration) {
	r.calls = append(r.calls, observation{endpoint, method, status, kind})
}
