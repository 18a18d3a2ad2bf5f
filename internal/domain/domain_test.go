package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"uuid", "3f1c2a8e-0d7b-4a52-9c11-1b2e3f4a5b6c", false},
		{"numeric", "42", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"query", "a?b", true},
		{"space", "a b", true},
		{"too long", string(make([]byte, maxIDLength+1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("product", tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPageMeta(t *testing.T) {
	meta := PageMeta{Page: 2, PageSize: 12, Total: 30}
	assert.Equal(t, 3, meta.TotalPages())
	assert.True(t, meta.HasNext())
	assert.True(t, meta.HasPrev())

	last := PageMeta{Page: 3, PageSize: 12, Total: 30}
	assert.False(t, last.HasNext())

	empty := PageMeta{Page: 1, PageSize: 12}
	assert.Equal(t, 1, empty.TotalPages())
	assert.False(t, empty.HasPrev())
}

func TestProductDecodesDecimalPrice(t *testing.T) {
	raw := `{"id":"p1","name":"Mesa","price":"1299.90","currency":"ARS","stock":3,
		"images":["/a.png","/b.png"],"specs":{"material":"roble"},
		"createdAt":"2025-01-02T03:04:05.000Z","updatedAt":"2025-01-02T03:04:05.000Z"}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1299.9")))
	assert.Equal(t, "/a.png", p.MainImage())
	assert.Equal(t, "roble", p.Specs["material"])
	assert.True(t, p.InStock())
}

func TestMainImagePlaceholder(t *testing.T) {
	assert.Equal(t, PlaceholderImage, Product{}.MainImage())
}

func TestCartItemFromProduct(t *testing.T) {
	p := Product{
		ID:       "p1",
		Name:     "Silla",
		Price:    decimal.RequireFromString("50.00"),
		Images:   []string{"/silla.png"},
		Unit:     &Unit{Name: "Pieza"},
		Category: &Category{Name: "Muebles"},
	}

	item := CartItemFromProduct(p, 2)
	assert.Equal(t, "p1", item.ID)
	assert.Equal(t, "/silla.png", item.Image)
	assert.Equal(t, []string{"Pieza", "Muebles"}, item.Attributes)
	assert.Equal(t, 2, item.Quantity)

	bare := CartItemFromProduct(Product{ID: "p2"}, 0)
	assert.Equal(t, []string{DefaultUnitAttribute, DefaultCategoryAttribute}, bare.Attributes)
	assert.Equal(t, 1, bare.Quantity)
	assert.Equal(t, PlaceholderImage, bare.Image)
}

func TestCartItemPricing(t *testing.T) {
	item := CartItem{Price: decimal.RequireFromString("100"), Quantity: 3}
	assert.True(t, item.LineSubtotal().Equal(decimal.NewFromInt(300)))
	assert.True(t, item.LineTotal().Equal(decimal.NewFromInt(300)))

	item.Discount = Discount{Percentage: 20, Amount: decimal.NewFromInt(5)}
	assert.True(t, item.UnitPrice().Equal(decimal.NewFromInt(80)), "percentage wins over amount")

	item.Discount = Discount{Amount: decimal.NewFromInt(5)}
	assert.True(t, item.UnitPrice().Equal(decimal.NewFromInt(95)))

	item.Discount = Discount{Amount: decimal.NewFromInt(500)}
	assert.True(t, item.UnitPrice().IsZero(), "discount never makes a price negative")
}

func TestSameLine(t *testing.T) {
	item := CartItem{ID: "p1", Attributes: []string{"M", "Rojo"}}
	assert.True(t, item.SameLine("p1", []string{"M", "Rojo"}))
	assert.False(t, item.SameLine("p1", []string{"Rojo", "M"}), "attribute order matters")
	assert.False(t, item.SameLine("p1", []string{"M"}))
	assert.False(t, item.SameLine("p2", []string{"M", "Rojo"}))
}
