package state

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// AddToCart adds item to the cart, merging it into an existing line with the
// same product and attributes. Items with a non-positive quantity are ignored.
func (s *Store) AddToCart(ctx context.Context, item domain.CartItem) {
	item.Attributes = slices.Clone(item.Attributes)
	s.updateCart(ctx, cartAdded{item: item})
}

// AddProductToCart adds quantity units of p with its default attributes.
func (s *Store) AddProductToCart(ctx context.Context, p domain.Product, quantity int) {
	s.AddToCart(ctx, domain.CartItemFromProduct(p, quantity))
}

// RemoveCartItem takes one unit off a line, dropping the line at zero.
func (s *Store) RemoveCartItem(ctx context.Context, id string, attributes []string) {
	s.updateCart(ctx, cartDecrement{id: id, attributes: attributes})
}

// RemoveLineItem drops a line regardless of its quantity.
func (s *Store) RemoveLineItem(ctx context.Context, id string, attributes []string) {
	s.updateCart(ctx, cartLineRemoved{id: id, attributes: attributes})
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.updateCart(ctx, cartCleared{})
}

// updateCart applies a cart action and persists the result while still
// holding the lock, so storage sees cart versions in order.
func (s *Store) updateCart(ctx context.Context, a Action) {
	s.mu.Lock()
	snap := s.applyLocked(a)
	s.saveCartLocked(ctx, snap.Cart)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
}

func (s *Store) saveCartLocked(ctx context.Context, cart CartState) {
	s.metrics.SetCartItems(cart.TotalQuantities)
	if s.storage == nil {
		return
	}
	var err error
	if len(cart.Items) == 0 {
		err = s.storage.Remove(ctx, storage.KeyCart)
	} else {
		var data []byte
		if data, err = json.Marshal(cart.Items); err == nil {
			err = s.storage.Set(ctx, storage.KeyCart, string(data))
		}
	}
	s.metrics.ObserveStorage("set", err)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "failed to persist cart")
	}
}

// loadCart reads the persisted cart. Corrupt or unreadable data yields an
// empty cart.
func (s *Store) loadCart(ctx context.Context) []domain.CartItem {
	if s.storage == nil {
		return nil
	}
	raw, found, err := s.storage.Get(ctx, storage.KeyCart)
	s.metrics.ObserveStorage("get", err)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "failed to read cart")
		return nil
	}
	if !found || raw == "" {
		return nil
	}
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WithError(err).WarnContext(ctx, "discarding unreadable cart")
		return nil
	}
	items = slices.DeleteFunc(items, func(c domain.CartItem) bool {
		return c.ID == "" || c.Quantity <= 0
	})
	s.metrics.SetCartItems(countItems(items))
	return items
}

func countItems(items []domain.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
