package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// AddFavoriteRequest represents a request to favorite a product
type AddFavoriteRequest struct {
	ProductID string `json:"productId"`
}

// ListFavorites returns the signed-in user's favorites with their product
// snapshots.
func (c *Client) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	var resp envelope[[]domain.Favorite]
	err := c.do(ctx, call{
		endpoint: EndpointListFavorites,
		method:   http.MethodGet,
		path:     "/favorites",
		auth:     true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []domain.Favorite{}
	}
	return resp.Data, nil
}

// AddFavorite creates a favorite. The response has no product snapshot, so
// callers refetch the list to display it.
func (c *Client) AddFavorite(ctx context.Context, productID string) (*domain.FavoriteRecord, error) {
	if err := validateID("product", productID); err != nil {
		return nil, err
	}

	var resp envelope[domain.FavoriteRecord]
	err := c.do(ctx, call{
		endpoint: EndpointAddFavorite,
		method:   http.MethodPost,
		path:     "/favorites",
		body:     AddFavoriteRequest{ProductID: productID},
		auth:     true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// RemoveFavorite deletes the favorite for productID. The backend answers
// 204 No Content.
func (c *Client) RemoveFavorite(ctx context.Context, productID string) error {
	if err := validateID("product", productID); err != nil {
		return err
	}

	return c.do(ctx, call{
		endpoint: EndpointRemoveFavorite,
		method:   http.MethodDelete,
		path:     "/favorites/" + url.PathEscape(productID),
		auth:     true,
	}, nil)
}

func validateID(kind, id string) error {
	if err := domain.ValidateID(kind, id); err != nil {
		return errors.Wrap(errors.ErrCodeAPIClient, err.Error(), err)
	}
	return nil
}
