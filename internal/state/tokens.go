package state

import (
	"context"

	"github.com/felixgeelhaar/shopfront/internal/session"
)

// TokenGate is the api.TokenStore handed to the backend client. Reads go
// straight to the session cache. Writes made on behalf of a store operation
// are dropped when that operation has already been superseded, so a login
// that loses a race with a logout or a newer login never persists its token.
type TokenGate struct {
	cache *session.TokenCache
	store *Store
}

// NewTokenGate wraps cache.
func NewTokenGate(cache *session.TokenCache) *TokenGate {
	return &TokenGate{cache: cache}
}

func (g *TokenGate) attach(s *Store) { g.store = s }

// Token returns the persisted token or "".
func (g *TokenGate) Token(ctx context.Context) string {
	return g.cache.Token(ctx)
}

// SetToken persists token unless ctx carries a stale request ticket.
func (g *TokenGate) SetToken(ctx context.Context, token string) error {
	t, ok := ticketFrom(ctx)
	if !ok || g.store == nil {
		return g.cache.SetToken(ctx, token)
	}
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	if !g.store.currentLocked(t) {
		return nil
	}
	return g.cache.SetToken(ctx, token)
}

// ClearToken removes the persisted token.
func (g *TokenGate) ClearToken(ctx context.Context) error {
	return g.cache.ClearToken(ctx)
}

// Err reports the last storage read failure behind the token.
func (g *TokenGate) Err() error {
	return g.cache.Err()
}
