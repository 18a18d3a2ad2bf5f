package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FavoriteProduct is the denormalised product snapshot embedded in a favorite.
type FavoriteProduct struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Currency string          `json:"currency" yaml:"currency"`
	Stock    int             `json:"stock" yaml:"stock"`
}

// Favorite associates a user with a product. The backend guarantees at most
// one favorite per (UserID, ProductID).
type Favorite struct {
	ID        string          `json:"id" yaml:"id"`
	UserID    string          `json:"userId" yaml:"userId"`
	ProductID string          `json:"productId" yaml:"productId"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt"`
	Product   FavoriteProduct `json:"product" yaml:"product"`
}

// FavoriteRecord is what POST /favorites returns: the association without the
// product snapshot, which is why adds are reconciled by refetching.
type FavoriteRecord struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"userId"`
	ProductID string    `json:"productId" yaml:"productId"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}
