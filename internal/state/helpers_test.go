package state

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/log"
	"github.com/felixgeelhaar/shopfront/internal/session"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// fakeAPI is an in-memory backend. Auth calls persist their token through
// the gate like the real client does. Any of the hooks may be replaced.
type fakeAPI struct {
	tokens *TokenGate

	mu        sync.Mutex
	calls     map[string]int
	favorites []domain.Favorite

	login       func(ctx context.Context, email, password string) (*api.AuthResponse, error)
	me          func(ctx context.Context) (*domain.User, error)
	listProduct func(ctx context.Context, page, pageSize int) (*api.ProductPage, error)
	getProduct  func(ctx context.Context, id string) (*domain.Product, error)
	addFav      func(ctx context.Context, productID string) error
	favList     func(ctx context.Context) error
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) issue(ctx context.Context, token string) (*api.AuthResponse, error) {
	if err := f.tokens.SetToken(ctx, token); err != nil {
		return nil, err
	}
	return &api.AuthResponse{Token: token}, nil
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (*api.AuthResponse, error) {
	f.count("register")
	if email == "taken@example.com" {
		return nil, errors.New(errors.ErrCodeAPIClient, "El email ya está registrado").WithRequest("/auth/register", 409, "")
	}
	return f.issue(ctx, "token-"+email)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	f.count("login")
	if f.login != nil {
		return f.login(ctx, email, password)
	}
	if password != "secret" {
		return nil, errors.New(errors.ErrCodeSessionExpired, "Credenciales inválidas").WithRequest("/auth/login", 401, "")
	}
	return f.issue(ctx, "token-"+email)
}

func (f *fakeAPI) Me(ctx context.Context) (*domain.User, error) {
	f.count("me")
	if f.me != nil {
		return f.me(ctx)
	}
	return &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleCustomer}, nil
}

func (f *fakeAPI) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	f.count("listFavorites")
	if f.favList != nil {
		if err := f.favList(ctx); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Favorite, len(f.favorites))
	copy(out, f.favorites)
	return out, nil
}

func (f *fakeAPI) AddFavorite(ctx context.Context, productID string) (*domain.FavoriteRecord, error) {
	f.count("addFavorite")
	if f.addFav != nil {
		if err := f.addFav(ctx, productID); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fav := domain.Favorite{
		ID:        fmt.Sprintf("fav-%d", len(f.favorites)+1),
		UserID:    "u1",
		ProductID: productID,
		Product:   domain.FavoriteProduct{ID: productID, Name: "Producto " + productID},
	}
	f.favorites = append(f.favorites, fav)
	return &domain.FavoriteRecord{ID: fav.ID, UserID: fav.UserID, ProductID: productID}, nil
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, productID string) error {
	f.count("removeFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, fav := range f.favorites {
		if fav.ProductID == productID {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeAPIClient, "El recurso solicitado no existe.").WithRequest("/favorites/"+productID, 404, "")
}

func (f *fakeAPI) ListProducts(ctx context.Context, page, pageSize int) (*api.ProductPage, error) {
	f.count("listProducts")
	if f.listProduct != nil {
		return f.listProduct(ctx, page, pageSize)
	}
	return pageOf(page, pageSize), nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	f.count("getProduct")
	if f.getProduct != nil {
		return f.getProduct(ctx, id)
	}
	return &domain.Product{ID: id, Name: "Producto " + id}, nil
}

func pageOf(page, pageSize int) *api.ProductPage {
	return &api.ProductPage{
		Products: []domain.Product{{ID: fmt.Sprintf("p%d-1", page)}, {ID: fmt.Sprintf("p%d-2", page)}},
		Meta:     domain.PageMeta{Total: 30, Page: page, PageSize: pageSize},
	}
}

type fixture struct {
	store   *Store
	api     *fakeAPI
	storage *storage.MemoryStore
	tokens  *TokenGate
}

func newFixture(t *testing.T, persisted map[string]string) *fixture {
	t.Helper()
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	for k, v := range persisted {
		require.NoError(t, mem.Set(ctx, k, v))
	}
	return newFixtureOn(t, mem)
}

func newFixtureOn(t *testing.T, mem *storage.MemoryStore) *fixture {
	t.Helper()
	gate := NewTokenGate(session.NewTokenCache(mem))
	fake := &fakeAPI{tokens: gate}
	store := New(context.Background(), Options{
		API:     fake,
		Tokens:  gate,
		Storage: mem,
		Logger:  log.Nop(),
	})
	return &fixture{store: store, api: fake, storage: mem, tokens: gate}
}

func (f *fixture) persistedToken(t *testing.T) (string, bool) {
	t.Helper()
	tok, found, err := f.storage.Get(context.Background(), storage.KeyAuthToken)
	require.NoError(t, err)
	return tok, found
}
