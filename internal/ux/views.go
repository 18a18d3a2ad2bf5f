package ux

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/state"
)

// FavoriteMark flags favorite products in listings.
const FavoriteMark = "♥"

// Money formats an amount with two decimals and its currency code.
func Money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return "$" + amount.StringFixed(2)
	}
	return "$" + amount.StringFixed(2) + " " + currency
}

// ProductListView is one page of the catalogue.
type ProductListView struct {
	Products []domain.Product
	Meta     *domain.PageMeta
	// IsFavorite marks rows; nil when there is no session.
	IsFavorite func(productID string) bool
	Styles     Styles
}

// Data implements View.
func (v ProductListView) Data() any {
	return struct {
		Data []domain.Product `json:"data" yaml:"data"`
		Meta *domain.PageMeta `json:"meta,omitempty" yaml:"meta,omitempty"`
	}{v.Products, v.Meta}
}

func (v ProductListView) String() string {
	if len(v.Products) == 0 {
		return v.Styles.Muted.Render("No hay productos.")
	}

	rows := make([][]string, 0, len(v.Products))
	for _, p := range v.Products {
		mark := ""
		if v.IsFavorite != nil && v.IsFavorite(p.ID) {
			mark = FavoriteMark
		}
		rows = append(rows, []string{mark, p.ID, p.Name, Money(p.Price, p.Currency), stockLabel(p)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.Styles.Muted).
		Headers("", "ID", "Producto", "Precio", "Stock").
		Rows(rows...)

	var b strings.Builder
	b.WriteString(t.Render())
	if v.Meta != nil {
		b.WriteString("\n")
		b.WriteString(v.Styles.Muted.Render(PageSummary(*v.Meta)))
	}
	return b.String()
}

// PageSummary describes the position of a page in the listing.
func PageSummary(m domain.PageMeta) string {
	return fmt.Sprintf("Página %d de %d (%d productos)", m.Page, m.TotalPages(), m.Total)
}

func stockLabel(p domain.Product) string {
	if !p.InStock() {
		return "Agotado"
	}
	return strconv.Itoa(p.Stock)
}

// ProductDetailView is the product page.
type ProductDetailView struct {
	Product  domain.Product
	Favorite bool
	Styles   Styles
}

// Data implements View.
func (v ProductDetailView) Data() any { return v.Product }

func (v ProductDetailView) String() string {
	p := v.Product
	var b strings.Builder

	title := p.Name
	if v.Favorite {
		title += " " + v.Styles.Favorite.Render(FavoriteMark)
	}
	b.WriteString(v.Styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.Styles.Price.Render(Money(p.Price, p.Currency)))
	b.WriteString("  ")
	b.WriteString(v.Styles.Muted.Render("Stock: " + stockLabel(p)))
	b.WriteString("\n")

	if p.Category != nil && p.Category.Name != "" {
		b.WriteString(v.Styles.Muted.Render("Categoría: " + p.Category.Name))
		b.WriteString("\n")
	}
	if p.Company != nil && p.Company.DisplayName != "" {
		b.WriteString(v.Styles.Muted.Render("Vendido por: " + p.Company.DisplayName))
		b.WriteString("\n")
	}
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.Description)
		b.WriteString("\n")
	}
	if len(p.ShortFeatures) > 0 {
		b.WriteString("\n")
		for _, f := range p.ShortFeatures {
			b.WriteString("  • " + f + "\n")
		}
	}
	if len(p.Specs) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(p.Specs))
		for k := range p.Specs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			b.WriteString(v.Styles.Muted.Render(k+": ") + p.Specs[k] + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FavoriteListView lists the user's favorites.
type FavoriteListView struct {
	Items  []domain.Favorite
	Styles Styles
}

// Data implements View.
func (v FavoriteListView) Data() any { return v.Items }

func (v FavoriteListView) String() string {
	if len(v.Items) == 0 {
		return v.Styles.Muted.Render("Todavía no tienes favoritos.")
	}
	rows := make([][]string, 0, len(v.Items))
	for _, f := range v.Items {
		rows = append(rows, []string{f.ProductID, f.Product.Name, Money(f.Product.Price, f.Product.Currency)})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.Styles.Muted).
		Headers("ID", "Producto", "Precio").
		Rows(rows...).
		Render()
}

// CartView is the cart with its totals.
type CartView struct {
	Cart   state.CartState
	Styles Styles
}

// Data implements View.
func (v CartView) Data() any {
	return struct {
		Items           []domain.CartItem `json:"items" yaml:"items"`
		TotalQuantities int               `json:"totalQuantities" yaml:"totalQuantities"`
		Subtotal        string            `json:"subtotal" yaml:"subtotal"`
		Discount        string            `json:"discount" yaml:"discount"`
		Total           string            `json:"total" yaml:"total"`
	}{
		Items:           v.Cart.Items,
		TotalQuantities: v.Cart.TotalQuantities,
		Subtotal:        v.Cart.Subtotal().StringFixed(2),
		Discount:        v.Cart.Discount().StringFixed(2),
		Total:           v.Cart.Total().StringFixed(2),
	}
}

func (v CartView) String() string {
	if len(v.Cart.Items) == 0 {
		return v.Styles.Muted.Render("Tu carrito está vacío.")
	}
	rows := make([][]string, 0, len(v.Cart.Items))
	for _, item := range v.Cart.Items {
		rows = append(rows, []string{
			item.ID,
			item.Name,
			strings.Join(item.Attributes, " / "),
			strconv.Itoa(item.Quantity),
			Money(item.LineTotal(), ""),
		})
	}

	var b strings.Builder
	b.WriteString(table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.Styles.Muted).
		Headers("ID", "Producto", "Variante", "Cant.", "Importe").
		Rows(rows...).
		Render())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Artículos: %d\n", v.Cart.TotalQuantities))
	b.WriteString("Subtotal: " + Money(v.Cart.Subtotal(), "") + "\n")
	if d := v.Cart.Discount(); d.IsPositive() {
		b.WriteString(v.Styles.Discount.Render("Descuento: -"+Money(d, "")) + "\n")
	}
	b.WriteString(v.Styles.Price.Render("Total: " + Money(v.Cart.Total(), "")))
	return b.String()
}

// SessionView describes who is signed in.
type SessionView struct {
	Auth   state.AuthState
	Styles Styles
}

// Data implements View.
func (v SessionView) Data() any {
	return struct {
		Authenticated bool         `json:"authenticated" yaml:"authenticated"`
		User          *domain.User `json:"user,omitempty" yaml:"user,omitempty"`
	}{v.Auth.IsAuthenticated, v.Auth.User}
}

func (v SessionView) String() string {
	switch {
	case v.Auth.User != nil:
		u := v.Auth.User
		return v.Styles.Success.Render("✓ ") + fmt.Sprintf("%s <%s>", u.Name, u.Email) +
			v.Styles.Muted.Render(" ("+u.Role+")")
	case v.Auth.IsAuthenticated:
		return v.Styles.Warning.Render("Sesión iniciada; perfil no disponible")
	default:
		return v.Styles.Muted.Render("No has iniciado sesión")
	}
}
