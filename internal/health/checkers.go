package health

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/session"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// probeKey is written and removed again by the storage check.
const probeKey = "health.probe"

// SlowBackend is the latency above which the backend is reported degraded.
const SlowBackend = 2 * time.Second

// StorageChecker verifies that the storage backend accepts a write, returns
// it and forgets it again.
type StorageChecker struct {
	driver string
	store  storage.Storage
}

// NewStorageChecker creates a storage checker; driver is only reported.
func NewStorageChecker(driver string, store storage.Storage) *StorageChecker {
	return &StorageChecker{driver: driver, store: store}
}

// Name returns the name of this health check.
func (c *StorageChecker) Name() string {
	return "storage"
}

// Check performs a set, get and remove round trip on a probe key.
func (c *StorageChecker) Check(ctx context.Context) *Result {
	value := time.Now().UTC().Format(time.RFC3339Nano)

	if err := c.store.Set(ctx, probeKey, value); err != nil {
		return Unhealthy(fmt.Sprintf("%s storage is not writable", c.driver)).
			WithDetail("driver", c.driver).
			WithDetail("error", err.Error())
	}
	defer func() { _ = c.store.Remove(context.WithoutCancel(ctx), probeKey) }()

	got, found, err := c.store.Get(ctx, probeKey)
	switch {
	case err != nil:
		return Unhealthy(fmt.Sprintf("%s storage is not readable", c.driver)).
			WithDetail("driver", c.driver).
			WithDetail("error", err.Error())
	case !found || got != value:
		return Unhealthy(fmt.Sprintf("%s storage lost a write", c.driver)).
			WithDetail("driver", c.driver)
	}

	return Healthy(fmt.Sprintf("%s storage is readable and writable", c.driver)).
		WithDetail("driver", c.driver)
}

// ProductLister is the slice of the API client the backend check needs.
type ProductLister interface {
	ListProducts(ctx context.Context, page, pageSize int) (*api.ProductPage, error)
}

// BackendChecker fetches the smallest possible product page.
type BackendChecker struct {
	baseURL string
	client  ProductLister
	slow    time.Duration
}

// NewBackendChecker creates a backend checker reporting baseURL.
func NewBackendChecker(baseURL string, client ProductLister) *BackendChecker {
	return &BackendChecker{baseURL: baseURL, client: client, slow: SlowBackend}
}

// Name returns the name of this health check.
func (c *BackendChecker) Name() string {
	return "backend-api"
}

// Check lists one product. Slow answers are degraded, failures unhealthy.
func (c *BackendChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	page, err := c.client.ListProducts(ctx, 1, 1)
	latency := time.Since(start)

	if err != nil {
		return Unhealthy(fmt.Sprintf("backend at %s is not answering", c.baseURL)).
			WithDetail("base_url", c.baseURL).
			WithDetail("error", err.Error()).
			WithLatency(latency)
	}

	result := Healthy(fmt.Sprintf("backend reachable (%dms)", latency.Milliseconds()))
	if latency > c.slow {
		result = Degraded(fmt.Sprintf("backend reachable but slow (%dms)", latency.Milliseconds()))
	}
	return result.
		WithDetail("base_url", c.baseURL).
		WithDetail("products", page.Meta.Total).
		WithLatency(latency)
}

// TokenSource returns the stored session token, empty when signed out.
type TokenSource interface {
	Token(ctx context.Context) string
}

// SessionChecker inspects the stored token without contacting the backend.
type SessionChecker struct {
	tokens TokenSource
	now    func() time.Time
}

// NewSessionChecker creates a session checker.
func NewSessionChecker(tokens TokenSource) *SessionChecker {
	return &SessionChecker{tokens: tokens, now: time.Now}
}

// Name returns the name of this health check.
func (c *SessionChecker) Name() string {
	return "session"
}

// Check reports signed-out as healthy and an expired token as degraded.
func (c *SessionChecker) Check(ctx context.Context) *Result {
	token := c.tokens.Token(ctx)
	if token == "" {
		return Healthy("not signed in").WithDetail("signed_in", false)
	}

	info, err := session.Inspect(token)
	if err != nil {
		return Healthy("signed in with an opaque token").WithDetail("signed_in", true)
	}
	if info.Expired(c.now()) {
		return Degraded("stored session has expired").
			WithDetail("signed_in", true).
			WithDetail("expired_at", info.ExpiresAt.Format(time.RFC3339)).
			WithDetail("suggestion", "Run 'shopfront auth login' to sign in again")
	}

	result := Healthy("signed in").WithDetail("signed_in", true)
	if info.Email != "" {
		result.WithDetail("email", info.Email)
	}
	if !info.ExpiresAt.IsZero() {
		result.WithDetail("expires_at", info.ExpiresAt.Format(time.RFC3339))
	}
	return result
}
