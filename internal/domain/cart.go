package domain

import (
	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown for products without images.
const PlaceholderImage = "/placeholder.svg"

// Default line-item attributes when a product has no unit or category.
const (
	DefaultUnitAttribute     = "Único"
	DefaultCategoryAttribute = "General"
)

// Discount applied to a cart line. Percentage takes precedence over Amount.
type Discount struct {
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	Percentage int             `json:"percentage" yaml:"percentage"`
}

// CartItem is a client-only cart line. Lines are identified by product ID
// plus the ordered attribute list, so the same product in two sizes is two lines.
type CartItem struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	Image      string          `json:"image" yaml:"image"`
	Price      decimal.Decimal `json:"price" yaml:"price"`
	Attributes []string        `json:"attributes" yaml:"attributes"`
	Discount   Discount        `json:"discount" yaml:"discount"`
	Quantity   int             `json:"quantity" yaml:"quantity"`
}

// SameLine reports whether two items describe the same cart line.
func (c CartItem) SameLine(id string, attributes []string) bool {
	if c.ID != id || len(c.Attributes) != len(attributes) {
		return false
	}
	for i := range attributes {
		if c.Attributes[i] != attributes[i] {
			return false
		}
	}
	return true
}

// UnitPrice is the price after the line discount, never below zero.
func (c CartItem) UnitPrice() decimal.Decimal {
	price := c.Price
	switch {
	case c.Discount.Percentage > 0:
		factor := decimal.NewFromInt(int64(100 - c.Discount.Percentage)).Div(decimal.NewFromInt(100))
		price = price.Mul(factor)
	case c.Discount.Amount.IsPositive():
		price = price.Sub(c.Discount.Amount)
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// LineSubtotal is price × quantity before discounts.
func (c CartItem) LineSubtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// LineTotal is the discounted unit price × quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.UnitPrice().Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartItemFromProduct builds the line item the product page adds to the cart.
func CartItemFromProduct(p Product, quantity int) CartItem {
	unit := DefaultUnitAttribute
	if p.Unit != nil && p.Unit.Name != "" {
		unit = p.Unit.Name
	}
	category := DefaultCategoryAttribute
	if p.Category != nil && p.Category.Name != "" {
		category = p.Category.Name
	}
	if quantity <= 0 {
		quantity = 1
	}

	return CartItem{
		ID:         p.ID,
		Name:       p.Name,
		Image:      p.MainImage(),
		Price:      p.Price,
		Attributes: []string{unit, category},
		Quantity:   quantity,
	}
}
