package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

func TestBootstrapWithoutTokenDoesNothing(t *testing.T) {
	f := newFixture(t, nil)
	b := NewBootstrapper(f.store)

	fetched, err := b.Sync(context.Background())

	assert.False(t, fetched)
	assert.NoError(t, err)
	assert.Zero(t, f.api.called("me"))
}

func TestBootstrapLoadsUserOnce(t *testing.T) {
	f := newFixture(t, map[string]string{storage.KeyAuthToken: "persisted"})
	b := NewBootstrapper(f.store)
	ctx := context.Background()

	fetched, err := b.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, fetched)
	require.NotNil(t, f.store.State().Auth.User)

	fetched, err = b.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, fetched, "user already loaded")
	assert.Equal(t, 1, f.api.called("me"))
}

func TestBootstrapDoesNotRetrySameToken(t *testing.T) {
	f := newFixture(t, map[string]string{storage.KeyAuthToken: "persisted"})
	f.api.me = func(context.Context) (*domain.User, error) {
		return nil, errors.New(errors.ErrCodeAPIServer, "Error del servidor").WithRequest("/auth/me", 500, "")
	}
	b := NewBootstrapper(f.store)
	ctx := context.Background()

	fetched, err := b.Sync(ctx)
	assert.True(t, fetched)
	assert.Error(t, err)

	fetched, err = b.Sync(ctx)
	assert.False(t, fetched)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.api.called("me"))

	require.NoError(t, f.store.Login(ctx, "ana@example.com", "secret"))
	f.api.me = nil
	fetched, err = b.Sync(ctx)
	assert.True(t, fetched, "a new token is tried")
	assert.NoError(t, err)
	assert.NotNil(t, f.store.State().Auth.User)
}

func TestBootstrapRunFollowsLogin(t *testing.T) {
	f := newFixture(t, nil)
	b := NewBootstrapper(f.store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()

	require.NoError(t, f.store.Login(context.Background(), "ana@example.com", "secret"))

	require.Eventually(t, func() bool {
		return f.store.State().Auth.User != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 1, f.api.called("me"))
}

func TestBootstrapRefetchesProfileAfterSwitchingAccount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.api.me = func(ctx context.Context) (*domain.User, error) {
		if f.tokens.Token(ctx) == "token-bob@example.com" {
			return &domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}, nil
		}
		return &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}, nil
	}
	b := NewBootstrapper(f.store)

	require.NoError(t, f.store.Login(ctx, "ana@example.com", "secret"))
	fetched, err := b.Sync(ctx)
	require.NoError(t, err)
	require.True(t, fetched)
	require.Equal(t, "Ana", f.store.State().Auth.User.Name)

	require.NoError(t, f.store.Login(ctx, "bob@example.com", "secret"))
	assert.Nil(t, f.store.State().Auth.User, "previous profile is dropped")

	fetched, err = b.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, fetched)
	require.NotNil(t, f.store.State().Auth.User)
	assert.Equal(t, "Bob", f.store.State().Auth.User.Name)
	assert.Equal(t, 2, f.api.called("me"))
}
