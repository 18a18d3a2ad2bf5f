package state

import "github.com/felixgeelhaar/shopfront/internal/domain"

// Action is a state transition request. Type names follow the
// "<slice>/<operation>[/<phase>]" convention and label metrics.
type Action interface {
	Type() string
}

// Session actions.
type (
	sessionRestored    struct{ hasToken bool }
	authPending        struct{ op string }
	authFulfilled      struct{ op string }
	authRejected       struct{ op, message string }
	currentUserPending struct{}
	currentUserLoaded  struct{ user domain.User }
	currentUserFailed  struct {
		message string
		expired bool
	}
	loggedOut      struct{}
	clearAuthError struct{}
)

func (sessionRestored) Type() string    { return "auth/restore" }
func (a authPending) Type() string      { return "auth/" + a.op + "/pending" }
func (a authFulfilled) Type() string    { return "auth/" + a.op + "/fulfilled" }
func (a authRejected) Type() string     { return "auth/" + a.op + "/rejected" }
func (currentUserPending) Type() string { return "auth/getCurrentUser/pending" }
func (currentUserLoaded) Type() string  { return "auth/getCurrentUser/fulfilled" }
func (currentUserFailed) Type() string  { return "auth/getCurrentUser/rejected" }
func (loggedOut) Type() string          { return "auth/logout" }
func (clearAuthError) Type() string     { return "auth/clearError" }

// Favorites actions.
type (
	favoritesPending    struct{ op string }
	favoritesFetched    struct{ items []domain.Favorite }
	favoriteAdded       struct{}
	favoriteRemoved     struct{ productID string }
	favoritesRejected   struct{ op, message string }
	clearFavoritesError struct{}
)

func (a favoritesPending) Type() string  { return "favorites/" + a.op + "/pending" }
func (favoritesFetched) Type() string    { return "favorites/fetchFavorites/fulfilled" }
func (favoriteAdded) Type() string       { return "favorites/addFavorite/fulfilled" }
func (favoriteRemoved) Type() string     { return "favorites/removeFavorite/fulfilled" }
func (a favoritesRejected) Type() string { return "favorites/" + a.op + "/rejected" }
func (clearFavoritesError) Type() string { return "favorites/clearError" }

// Products actions.
type (
	productsPending struct{}
	productsFetched struct {
		items []domain.Product
		meta  domain.PageMeta
	}
	productsRejected    struct{ message string }
	productPending      struct{}
	productFetched      struct{ product domain.Product }
	productRejected     struct{ message string }
	clearCurrentProduct struct{}
	clearProductsError  struct{}
)

func (productsPending) Type() string     { return "products/fetchProducts/pending" }
func (productsFetched) Type() string     { return "products/fetchProducts/fulfilled" }
func (productsRejected) Type() string    { return "products/fetchProducts/rejected" }
func (productPending) Type() string      { return "products/fetchProductById/pending" }
func (productFetched) Type() string      { return "products/fetchProductById/fulfilled" }
func (productRejected) Type() string     { return "products/fetchProductById/rejected" }
func (clearCurrentProduct) Type() string { return "products/clearCurrentProduct" }
func (clearProductsError) Type() string  { return "products/clearError" }

// Cart actions.
type (
	cartRestored  struct{ items []domain.CartItem }
	cartAdded     struct{ item domain.CartItem }
	cartDecrement struct {
		id         string
		attributes []string
	}
	cartLineRemoved struct {
		id         string
		attributes []string
	}
	cartCleared struct{}
)

func (cartRestored) Type() string    { return "cart/restore" }
func (cartAdded) Type() string       { return "cart/addToCart" }
func (cartDecrement) Type() string   { return "cart/removeCartItem" }
func (cartLineRemoved) Type() string { return "cart/remove" }
func (cartCleared) Type() string     { return "cart/clear" }

// Theme actions.
type themeSet struct{ theme Theme }

func (themeSet) Type() string { return "theme/set" }
