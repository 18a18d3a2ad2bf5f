package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/errors"
)

func TestFetchProductsReplacesListing(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.store.FetchProducts(ctx, 2, 12))
	require.NoError(t, f.store.FetchProducts(ctx, 1, 12))

	products := f.store.State().Products
	require.Len(t, products.Items, 2)
	assert.Equal(t, "p1-1", products.Items[0].ID)
	require.NotNil(t, products.Meta)
	assert.Equal(t, 1, products.Meta.Page)
	assert.Equal(t, 3, products.Meta.TotalPages())
	assert.False(t, products.Loading)
}

func TestFetchProductsDefaults(t *testing.T) {
	f := newFixture(t, nil)
	var gotPage, gotSize int
	f.api.listProduct = func(_ context.Context, page, pageSize int) (*api.ProductPage, error) {
		gotPage, gotSize = page, pageSize
		return pageOf(page, pageSize), nil
	}

	require.NoError(t, f.store.FetchProducts(context.Background(), 0, -1))
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 12, gotSize)
}

func TestStaleProductsResponseDiscarded(t *testing.T) {
	f := newFixture(t, nil)
	entered, release := make(chan struct{}), make(chan struct{})
	f.api.listProduct = func(_ context.Context, page, pageSize int) (*api.ProductPage, error) {
		if page == 2 {
			close(entered)
			<-release
		}
		return pageOf(page, pageSize), nil
	}

	done := make(chan error, 1)
	go func() { done <- f.store.FetchProducts(context.Background(), 2, 12) }()
	<-entered
	require.NoError(t, f.store.FetchProducts(context.Background(), 3, 12))
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	products := f.store.State().Products
	assert.Equal(t, 3, products.Meta.Page)
	assert.Equal(t, "p3-1", products.Items[0].ID)
	assert.False(t, products.Loading)
}

func TestFetchProductsFailureKeepsPreviousPage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.FetchProducts(ctx, 1, 12))

	f.api.listProduct = func(context.Context, int, int) (*api.ProductPage, error) {
		return nil, errors.New(errors.ErrCodeNetworkUnreachable, "Error de conexión")
	}
	require.Error(t, f.store.FetchProducts(ctx, 2, 12))

	products := f.store.State().Products
	assert.Equal(t, "Error de conexión", products.Error)
	assert.Len(t, products.Items, 2)
	assert.Equal(t, 1, products.Meta.Page)

	f.store.ClearProductsError()
	assert.Empty(t, f.store.State().Products.Error)
}

func TestFetchProductByID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.store.FetchProducts(ctx, 1, 12))

	require.NoError(t, f.store.FetchProductByID(ctx, "p9"))

	products := f.store.State().Products
	require.NotNil(t, products.Current)
	assert.Equal(t, "p9", products.Current.ID)
	assert.False(t, products.LoadingCurrent)
	assert.Len(t, products.Items, 2, "listing untouched")

	f.store.ClearCurrentProduct()
	assert.Nil(t, f.store.State().Products.Current)
}

func TestFetchProductByIDNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.api.getProduct = func(context.Context, string) (*domain.Product, error) {
		return nil, errors.New(errors.ErrCodeAPIClient, "El recurso solicitado no existe.").WithRequest("/products/x", 404, "")
	}

	require.Error(t, f.store.FetchProductByID(context.Background(), "x"))

	products := f.store.State().Products
	assert.Nil(t, products.Current)
	assert.Equal(t, "El recurso solicitado no existe.", products.Error)
}

func TestClearCurrentProductSupersedesInflightDetail(t *testing.T) {
	f := newFixture(t, nil)
	entered, release := make(chan struct{}), make(chan struct{})
	f.api.getProduct = func(_ context.Context, id string) (*domain.Product, error) {
		close(entered)
		<-release
		return &domain.Product{ID: id}, nil
	}

	done := make(chan error, 1)
	go func() { done <- f.store.FetchProductByID(context.Background(), "p1") }()
	<-entered
	f.store.ClearCurrentProduct()
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	products := f.store.State().Products
	assert.Nil(t, products.Current)
	assert.False(t, products.LoadingCurrent)
}
