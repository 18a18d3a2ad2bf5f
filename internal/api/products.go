package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/shopfront/internal/domain"
)

// Listing defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

// ProductPage is one page of the product listing
type ProductPage struct {
	Products []domain.Product `json:"data"`
	Meta     domain.PageMeta  `json:"meta"`
}

// ListProducts returns one page of products. Non-positive page or pageSize
// fall back to 1 and 12.
func (c *Client) ListProducts(ctx context.Context, page, pageSize int) (*ProductPage, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var resp ProductPage
	err := c.do(ctx, call{
		endpoint: EndpointListProducts,
		method:   http.MethodGet,
		path:     "/products?" + query.Encode(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Products == nil {
		resp.Products = []domain.Product{}
	}
	return &resp, nil
}

// GetProduct returns a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := validateID("product", id); err != nil {
		return nil, err
	}

	var resp envelope[domain.Product]
	err := c.do(ctx, call{
		endpoint: EndpointGetProduct,
		method:   http.MethodGet,
		path:     "/products/" + url.PathEscape(id),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
