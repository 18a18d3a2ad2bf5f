package state

import (
	"context"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// FetchProducts loads one listing page, replacing the previous one.
// Non-positive arguments fall back to page 1 and the default page size.
func (s *Store) FetchProducts(ctx context.Context, page, pageSize int) error {
	if page <= 0 {
		page = api.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = api.DefaultPageSize
	}
	return s.run(ctx, keyProductsList, opFetchProducts, productsPending{}, func(ctx context.Context) outcome {
		res, err := s.api.ListProducts(ctx, page, pageSize)
		if err != nil {
			return outcome{action: productsRejected{message: errors.Message(err)}, err: err}
		}
		return outcome{action: productsFetched{items: res.Products, meta: res.Meta}}
	})
}

// FetchProductByID loads the product for the detail view.
func (s *Store) FetchProductByID(ctx context.Context, id string) error {
	return s.run(ctx, keyProduct, opFetchProduct, productPending{}, func(ctx context.Context) outcome {
		product, err := s.api.GetProduct(ctx, id)
		if err != nil {
			return outcome{action: productRejected{message: errors.Message(err)}, err: err}
		}
		return outcome{action: productFetched{product: *product}}
	})
}

// ClearCurrentProduct leaves the detail view. Any detail request still in
// flight is superseded so it cannot repopulate it.
func (s *Store) ClearCurrentProduct() {
	s.mu.Lock()
	s.supersedeLocked(keyProduct)
	snap := s.applyLocked(clearCurrentProduct{})
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
}

// ClearProductsError dismisses the products error message.
func (s *Store) ClearProductsError() {
	s.dispatch(clearProductsError{})
}
