package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shopfront/internal/config"
	"github.com/felixgeelhaar/shopfront/internal/log"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

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

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	cfg.API.RetryMax = 0
	cfg.Storage.Driver = storage.DriverMemory
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "metrics", "shopfront.prom")
	return cfg
}

func TestNewWiresStoreToBackend(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "shopfront/")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{},
			"meta": map[string]any{"page": 1, "pageSize": 12, "total": 0},
		})
	}))
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, server.URL), WithLogger(log.Nop()))
	require.NoError(t, err)

	require.NoError(t, a.Store.FetchProducts(ctx, 1, 12))
	assert.NotNil(t, a.Store.State().Products.Meta)
	assert.False(t, a.Store.State().Auth.IsAuthenticated)

	require.NoError(t, a.Close(ctx))
	data, err := os.ReadFile(a.Config.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `shopfront_api_calls_total{endpoint="products.list"`)
}

func TestNewRestoresSessionFromInjectedStorage(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, storage.KeyAuthToken, "persisted"))
	require.NoError(t, mem.Set(ctx, storage.KeyTheme, "dark"))

	a, err := New(ctx, testConfig(t, "http://127.0.0.1:1"), WithLogger(log.Nop()), WithStorage(mem))
	require.NoError(t, err)
	defer a.Close(ctx)

	st := a.Store.State()
	assert.True(t, st.Auth.IsAuthenticated)
	assert.Equal(t, "dark", string(st.Theme))
	assert.Equal(t, "persisted", a.Tokens.Token(ctx))
}

func TestNewRejectsUnknownStorageDriver(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Storage.Driver = "sqlite"

	_, err := New(context.Background(), cfg, WithLogger(log.Nop()))
	assert.ErrorContains(t, err, "sqlite")
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	l := NewLogger(cfg)
	assert.True(t, l.Enabled(context.Background(), log.LevelDebug))
	assert.Equal(t, log.FormatJSON, l.Config().Format)
}
