package state

import (
	"slices"

	"github.com/felixgeelhaar/shopfront/internal/domain"
)

// Reduce applies a to s and returns the new snapshot. It never mutates s or
// any slice reachable from it. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	next := s
	switch a := a.(type) {
	case sessionRestored, authPending, authRejected,
		currentUserPending, currentUserLoaded, currentUserFailed, clearAuthError:
		next.Auth = reduceAuth(s.Auth, a)
	case authFulfilled:
		// A new token may belong to another account: whatever was loaded for
		// the previous one is dropped until it is fetched again.
		next.Auth = reduceAuth(s.Auth, a)
		next.Favorites = FavoritesState{}
	case loggedOut:
		next.Auth = AuthState{}
		next.Favorites = FavoritesState{}
	case favoritesPending, favoritesFetched, favoriteAdded, favoriteRemoved,
		favoritesRejected, clearFavoritesError:
		next.Favorites = reduceFavorites(s.Favorites, a)
	case productsPending, productsFetched, productsRejected, productPending,
		productFetched, productRejected, clearCurrentProduct, clearProductsError:
		next.Products = reduceProducts(s.Products, a)
	case cartRestored, cartAdded, cartDecrement, cartLineRemoved, cartCleared:
		next.Cart = reduceCart(s.Cart, a)
	case themeSet:
		next.Theme = a.theme
	default:
		return s
	}
	next.Version = s.Version + 1
	return next
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case sessionRestored:
		s.IsAuthenticated = a.hasToken
	case authPending:
		s.Loading = true
		s.Error = ""
	case authFulfilled:
		s.Loading = false
		s.IsAuthenticated = true
		s.User = nil
		s.Error = ""
	case authRejected:
		// A failed login or registration leaves any existing session as it was.
		s.Loading = false
		s.Error = a.message
	case currentUserPending:
		s.Loading = true
	case currentUserLoaded:
		user := a.user
		s.User = &user
		s.IsAuthenticated = true
		s.Loading = false
	case currentUserFailed:
		s.Loading = false
		s.Error = a.message
		if a.expired {
			s.User = nil
			s.IsAuthenticated = false
		}
	case clearAuthError:
		s.Error = ""
	}
	return s
}

func reduceFavorites(s FavoritesState, a Action) FavoritesState {
	switch a := a.(type) {
	case favoritesPending:
		// Adding is optimistic from the user's point of view; only list and
		// remove show a spinner.
		if a.op != opAddFavorite {
			s.Loading = true
		}
		s.Error = ""
	case favoritesFetched:
		s.Items = a.items
		s.Loading = false
	case favoriteAdded:
		s.Loading = false
	case favoriteRemoved:
		s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(f domain.Favorite) bool {
			return f.ProductID == a.productID
		})
		s.Loading = false
	case favoritesRejected:
		s.Loading = false
		s.Error = a.message
	case clearFavoritesError:
		s.Error = ""
	}
	return s
}

func reduceProducts(s ProductsState, a Action) ProductsState {
	switch a := a.(type) {
	case productsPending:
		s.Loading = true
		s.Error = ""
	case productsFetched:
		meta := a.meta
		s.Items = a.items
		s.Meta = &meta
		s.Loading = false
	case productsRejected:
		s.Loading = false
		s.Error = a.message
	case productPending:
		s.LoadingCurrent = true
		s.Error = ""
	case productFetched:
		product := a.product
		s.Current = &product
		s.LoadingCurrent = false
	case productRejected:
		s.LoadingCurrent = false
		s.Error = a.message
	case clearCurrentProduct:
		s.Current = nil
		s.LoadingCurrent = false
	case clearProductsError:
		s.Error = ""
	}
	return s
}

func reduceCart(s CartState, a Action) CartState {
	switch a := a.(type) {
	case cartRestored:
		s.Items = a.items
	case cartAdded:
		if a.item.Quantity <= 0 {
			return s
		}
		items := slices.Clone(s.Items)
		if i := lineIndex(items, a.item.ID, a.item.Attributes); i >= 0 {
			items[i].Quantity += a.item.Quantity
		} else {
			items = append(items, a.item)
		}
		s.Items = items
	case cartDecrement:
		i := lineIndex(s.Items, a.id, a.attributes)
		if i < 0 {
			return s
		}
		items := slices.Clone(s.Items)
		if items[i].Quantity > 1 {
			items[i].Quantity--
		} else {
			items = slices.Delete(items, i, i+1)
		}
		s.Items = items
	case cartLineRemoved:
		i := lineIndex(s.Items, a.id, a.attributes)
		if i < 0 {
			return s
		}
		s.Items = slices.Delete(slices.Clone(s.Items), i, i+1)
	case cartCleared:
		s.Items = nil
	}
	s.TotalQuantities = 0
	for _, item := range s.Items {
		s.TotalQuantities += item.Quantity
	}
	return s
}

func lineIndex(items []domain.CartItem, id string, attributes []string) int {
	return slices.IndexFunc(items, func(c domain.CartItem) bool {
		return c.SameLine(id, attributes)
	})
}
