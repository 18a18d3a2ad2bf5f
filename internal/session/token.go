// Package session owns the persisted bearer token. Storage is the source of
// truth; TokenCache keeps a read-through copy that is invalidated explicitly,
// so there is never a second independently mutated token anywhere.
package session

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// TokenCache is a read-through cache of the token stored under
// storage.KeyAuthToken.
type TokenCache struct {
	mu      sync.Mutex
	store   storage.Storage
	loaded  bool
	token   string
	readErr error
}

// NewTokenCache returns a cache over store. Nothing is read until the first
// call to Token.
func NewTokenCache(store storage.Storage) *TokenCache {
	return &TokenCache{store: store}
}

// Token returns the current token, or "" when none is persisted. A storage
// read failure is treated as "no token"; Err exposes it.
func (c *TokenCache) Token(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		token, _, err := c.store.Get(ctx, storage.KeyAuthToken)
		c.readErr = err
		if err != nil {
			token = ""
		}
		c.token = token
		c.loaded = true
	}
	return c.token
}

// Err returns the last storage read error, if any.
func (c *TokenCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr == nil {
		return nil
	}
	return errors.NewStorageReadError(storage.KeyAuthToken, c.readErr)
}

// SetToken persists token and then updates the cache. If the write fails the
// cache is invalidated so the next read reflects whatever storage holds.
func (c *TokenCache) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Set(ctx, storage.KeyAuthToken, token); err != nil {
		c.loaded = false
		return errors.NewStorageWriteError(storage.KeyAuthToken, err)
	}
	c.token = token
	c.loaded = true
	c.readErr = nil
	return nil
}

// ClearToken removes the token from storage and the cache. The cache is
// cleared even when storage fails: a token that was judged invalid must not
// be sent again from this process.
func (c *TokenCache) ClearToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.Remove(ctx, storage.KeyAuthToken)
	c.token = ""
	c.loaded = true
	if err != nil {
		return errors.NewStorageWriteError(storage.KeyAuthToken, err)
	}
	return nil
}

// Invalidate drops the cached value; the next Token call reads storage.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.token = ""
}
