package state

import (
	"context"
	"sync"

	"github.com/zeebo/blake3"
)

// Bootstrapper loads the user profile whenever a token is present but no
// user is loaded. Each token is tried once: a failed fetch is not repeated
// until the token changes. Only a fingerprint of the token is kept.
type Bootstrapper struct {
	store *Store

	mu    sync.Mutex
	tried [32]byte
	has   bool
}

// NewBootstrapper returns a Bootstrapper driving s.
func NewBootstrapper(s *Store) *Bootstrapper {
	return &Bootstrapper{store: s}
}

// Sync fetches the current user if needed and reports whether it did.
func (b *Bootstrapper) Sync(ctx context.Context) (bool, error) {
	token := b.store.tokens.Token(ctx)

	b.mu.Lock()
	if token == "" {
		b.has = false
		b.mu.Unlock()
		return false, nil
	}
	fp := blake3.Sum256([]byte(token))
	auth := b.store.State().Auth
	if auth.User != nil || auth.Loading || (b.has && b.tried == fp) {
		b.mu.Unlock()
		return false, nil
	}
	b.tried, b.has = fp, true
	b.mu.Unlock()

	return true, b.store.GetCurrentUser(ctx)
}

// Run calls Sync once and then after every state change until ctx is done.
// Errors are already reflected in the session slice and are only logged.
func (b *Bootstrapper) Run(ctx context.Context) {
	wake := make(chan struct{}, 1)
	unsubscribe := b.store.Subscribe(func(State) {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		if _, err := b.Sync(ctx); err != nil && ctx.Err() == nil {
			b.store.logger.WithError(err).DebugContext(ctx, "session bootstrap failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}
	}
}
