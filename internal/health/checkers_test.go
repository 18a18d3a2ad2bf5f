package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

type brokenStore struct {
	storage.Storage
	setErr error
}

func (b *brokenStore) Set(context.Context, string, string) error { return b.setErr }

func TestStorageChecker(t *testing.T) {
	store := storage.NewMemoryStore()
	checker := NewStorageChecker("memory", store)

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Fatalf("Status = %v (%s), want healthy", result.Status, result.Message)
	}
	if result.Details["driver"] != "memory" {
		t.Errorf("Details[driver] = %v", result.Details["driver"])
	}
	if store.Len() != 0 {
		t.Errorf("probe key left behind: %d keys", store.Len())
	}
	if checker.Name() != "storage" {
		t.Errorf("Name() = %q", checker.Name())
	}
}

func TestStorageCheckerWriteFailure(t *testing.T) {
	checker := NewStorageChecker("redis", &brokenStore{setErr: errors.New("connection refused")})

	result := checker.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("Status = %v, want unhealthy", result.Status)
	}
	if result.Details["error"] != "connection refused" {
		t.Errorf("Details[error] = %v", result.Details["error"])
	}
}

type fakeLister struct {
	delay time.Duration
	err   error
}

func (f fakeLister) ListProducts(ctx context.Context, page, pageSize int) (*api.ProductPage, error) {
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ProductPage{Meta: domain.PageMeta{Page: page, PageSize: pageSize, Total: 42}}, nil
}

func TestBackendChecker(t *testing.T) {
	tests := []struct {
		name   string
		lister fakeLister
		slow   time.Duration
		want   Status
	}{
		{name: "reachable", lister: fakeLister{}, slow: time.Second, want: StatusHealthy},
		{name: "slow", lister: fakeLister{delay: 20 * time.Millisecond}, slow: time.Millisecond, want: StatusDegraded},
		{name: "down", lister: fakeLister{err: errors.New("dial tcp: refused")}, slow: time.Second, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewBackendChecker("http://shop.test", tt.lister)
			checker.slow = tt.slow

			result := checker.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
			if result.Details["base_url"] != "http://shop.test" {
				t.Errorf("Details[base_url] = %v", result.Details["base_url"])
			}
			if tt.want != StatusUnhealthy && result.Details["products"] != 42 {
				t.Errorf("Details[products] = %v, want 42", result.Details["products"])
			}
		})
	}
}

type staticTokens string

func (s staticTokens) Token(context.Context) string { return string(s) }

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSessionChecker(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    string
		want     Status
		signedIn bool
	}{
		{name: "signed out", token: "", want: StatusHealthy, signedIn: false},
		{name: "opaque token", token: "opaque-token", want: StatusHealthy, signedIn: true},
		{
			name:     "valid jwt",
			token:    signed(t, jwt.MapClaims{"sub": "u-1", "email": "ana@example.com", "exp": now.Add(time.Hour).Unix()}),
			want:     StatusHealthy,
			signedIn: true,
		},
		{
			name:     "expired jwt",
			token:    signed(t, jwt.MapClaims{"sub": "u-1", "exp": now.Add(-time.Hour).Unix()}),
			want:     StatusDegraded,
			signedIn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewSessionChecker(staticTokens(tt.token))
			checker.now = func() time.Time { return now }

			result := checker.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
			if result.Details["signed_in"] != tt.signedIn {
				t.Errorf("Details[signed_in] = %v, want %v", result.Details["signed_in"], tt.signedIn)
			}
		})
	}
}
