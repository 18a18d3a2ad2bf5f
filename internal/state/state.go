// Package state is the client-side application state: session, favorites,
// products, cart and theme slices behind a single Store. Reducers are pure
// functions over value snapshots; asynchronous operations are fenced so a
// response is applied only if no newer request for the same slot was
// dispatched after it.
package state

import (
	"github.com/shopspring/decimal"

	"github.com/felixgeelhaar/shopfront/internal/domain"
)

// State is an immutable snapshot of the whole client state. Slices inside
// it are never modified in place; reducers copy on write.
type State struct {
	// Version increases with every applied action, so subscribers can drop
	// snapshots that arrive out of order.
	Version uint64

	Auth      AuthState
	Favorites FavoritesState
	Products  ProductsState
	Cart      CartState
	Theme     Theme
}

// AuthState is the session slice. The token itself is not part of it; it
// lives in storage behind the session token cache.
type AuthState struct {
	User            *domain.User
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// FavoritesState is the favorites slice.
type FavoritesState struct {
	Items   []domain.Favorite
	Loading bool
	Error   string
}

// Contains reports whether productID is among the favorites.
func (f FavoritesState) Contains(productID string) bool {
	for _, fav := range f.Items {
		if fav.ProductID == productID {
			return true
		}
	}
	return false
}

// ProductsState is the products slice: one listing page plus the product
// shown on the detail view.
type ProductsState struct {
	Items          []domain.Product
	Meta           *domain.PageMeta
	Current        *domain.Product
	Loading        bool
	LoadingCurrent bool
	Error          string
}

// CartState is the cart slice.
type CartState struct {
	Items           []domain.CartItem
	TotalQuantities int
}

// Subtotal is the cart value before discounts.
func (c CartState) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineSubtotal())
	}
	return total
}

// Total is the cart value after per-line discounts.
func (c CartState) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Discount is Subtotal minus Total.
func (c CartState) Discount() decimal.Decimal {
	return c.Subtotal().Sub(c.Total())
}

// Theme is the colour scheme preference.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
