package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "secreto123"
	testToken    = "opaque-token-ana"
)

// backend is an in-memory storefront API.
type backend struct {
	mu        sync.Mutex
	products  []map[string]any
	favorites []string
	calls     map[string]int
	server    *httptest.Server
}

func product(id, name, price string) map[string]any {
	return map[string]any{
		"id": id, "companyId": "c1", "name": name, "slug": strings.ToLower(name),
		"price": price, "currency": "MXN", "stock": 5, "categoryId": "cat1",
		"images":   []string{"https://img.example.com/" + id + ".jpg"},
		"unit":     map[string]any{"id": "u1", "name": "Pieza", "code": "PZA"},
		"category": map[string]any{"id": "cat1", "name": "Ropa", "slug": "ropa"},
	}
}

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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{
		products: []map[string]any{
			product("p1", "Camiseta", "19.90"),
			product("p2", "Sudadera", "45.00"),
			product("p3", "Gorra", "12.50"),
		},
		calls: map[string]int{},
	}

	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return false
		}
		return true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.count("login")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != testEmail || body["password"] != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": testToken})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		b.count("register")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "taken@example.com" {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "El email ya está registrado"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"token": testToken})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.count("me")
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"id": "u1", "name": "Ana", "email": testEmail, "role": "CLIENTE",
		}})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		b.count("products")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		b.mu.Lock()
		defer b.mu.Unlock()
		start := min((page-1)*size, len(b.products))
		end := min(start+size, len(b.products))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": b.products[start:end],
			"meta": map[string]any{"page": page, "pageSize": size, "total": len(b.products)},
		})
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.count("product")
		if p := b.find(r.PathValue("id")); p != nil {
			writeJSON(w, http.StatusOK, map[string]any{"data": p})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Producto no encontrado"})
	})
	mux.HandleFunc("GET /favorites", func(w http.ResponseWriter, r *http.Request) {
		b.count("favorites")
		if !authorized(w, r) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		items := make([]map[string]any, 0, len(b.favorites))
		for _, id := range b.favorites {
			p := b.findLocked(id)
			items = append(items, map[string]any{
				"id": "f-" + id, "userId": "u1", "productId": id, "createdAt": "2026-01-02T03:04:05Z",
				"product": map[string]any{"id": id, "name": p["name"], "price": p["price"], "currency": "MXN", "stock": 5},
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": items})
	})
	mux.HandleFunc("POST /favorites", func(w http.ResponseWriter, r *http.Request) {
		b.count("addFavorite")
		if !authorized(w, r) {
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		id := body["productId"]
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.findLocked(id) == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Producto no encontrado"})
			return
		}
		if slices.Contains(b.favorites, id) {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "Ya está en favoritos"})
			return
		}
		b.favorites = append(b.favorites, id)
		writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
			"id": "f-" + id, "userId": "u1", "productId": id, "createdAt": "2026-01-02T03:04:05Z",
		}})
	})
	mux.HandleFunc("DELETE /favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.count("removeFavorite")
		if !authorized(w, r) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.favorites = slices.DeleteFunc(b.favorites, func(id string) bool { return id == r.PathValue("id") })
		w.WriteHeader(http.StatusNoContent)
	})

	b.server = newTestServer(t, mux)
	return b
}

func (b *backend) count(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
}

func (b *backend) called(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *backend) find(id string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(id)
}

func (b *backend) findLocked(id string) map[string]any {
	for _, p := range b.products {
		if p["id"] == id {
			return p
		}
	}
	return nil
}

// isolate points configuration and state at a temp dir and b.
func isolate(t *testing.T, b *backend) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SHOPFRONT_STORAGE_DRIVER", "file")
	t.Setenv("SHOPFRONT_STORAGE_PATH", filepath.Join(dir, "state.yaml"))
	t.Setenv("SHOPFRONT_LOG_LEVEL", "error")
	if b != nil {
		t.Setenv("SHOPFRONT_API_BASE_URL", b.server.URL)
	}
	return dir
}

// resetFlags restores every flag in the tree to its default so runs do not
// leak into each other through the package-level flag variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes shopfront with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// runJSON executes shopfront with -o json and decodes the output into v.
func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, "", append(args, "-o", "json")...)
	if err != nil {
		t.Fatalf("shopfront %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
}

// signIn logs in through the CLI.
func signIn(t *testing.T) {
	t.Helper()
	if out, err := run(t, testPassword+"\n", "auth", "login", "--email", testEmail, "--password-stdin"); err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
}
