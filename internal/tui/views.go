package tui

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/shopfront/internal/ux"
)

// View renders the browser (required by Bubble Tea)
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}
	if m.quitting {
		return ""
	}

	var body string
	switch m.currentView {
	case ViewList:
		body = m.renderList()
	case ViewDetail:
		body = m.renderDetail()
	case ViewCart:
		body = m.renderCart()
	case ViewHelp:
		body = m.renderHelp()
	default:
		body = "Vista desconocida"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if line := m.renderStatus(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.currentView != ViewHelp {
		b.WriteString(m.styles.Help.Render(m.help.View(keys)))
	}
	return b.String()
}

// renderHeader shows the title, the session and the cart count.
func (m Model) renderHeader() string {
	s := m.snapshot
	title := m.styles.Title.UnsetMarginBottom().Render("shopfront")

	who := m.styles.Muted.Render("invitado")
	switch {
	case s.Auth.User != nil:
		who = m.styles.Subtitle.Render(s.Auth.User.Name)
	case s.Auth.IsAuthenticated:
		who = m.styles.Muted.Render("sesión iniciada")
	}

	cart := m.styles.Key.Render(fmt.Sprintf("🛒 %d", s.Cart.TotalQuantities))
	return title + "  " + who + "  " + cart
}

func (m Model) renderList() string {
	products := m.snapshot.Products
	if products.Loading && len(products.Items) == 0 {
		return m.spinner.View() + " Cargando productos..."
	}
	if products.Error != "" && len(products.Items) == 0 {
		return m.styles.Error.Render("✗ " + products.Error)
	}
	if len(products.Items) == 0 {
		return m.styles.Muted.Render("No hay productos.")
	}

	var b strings.Builder
	for i, p := range products.Items {
		mark := "  "
		if m.snapshot.Favorites.Contains(p.ID) {
			mark = m.styles.Favorite.Render(ux.FavoriteMark) + " "
		}
		line := fmt.Sprintf("%-32s %s", truncate(p.Name, 32), ux.Money(p.Price, p.Currency))
		if !p.InStock() {
			line += "  " + m.styles.Muted.Render("agotado")
		}
		if i == m.cursor {
			b.WriteString(m.styles.Highlighted.Render("› "+line) + " " + mark)
		} else {
			b.WriteString("  " + line + " " + mark)
		}
		b.WriteString("\n")
	}

	if products.Meta != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(ux.PageSummary(*products.Meta)))
	}
	if products.Loading {
		b.WriteString("  " + m.spinner.View())
	}
	if products.Error != "" {
		b.WriteString("\n" + m.styles.Error.Render("✗ "+products.Error))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	products := m.snapshot.Products
	switch {
	case products.LoadingCurrent:
		return m.spinner.View() + " Cargando producto..."
	case products.Current == nil && products.Error != "":
		return m.styles.Error.Render("✗ " + products.Error)
	case products.Current == nil:
		return m.styles.Muted.Render("Producto no disponible.")
	}

	return ux.ProductDetailView{
		Product:  *products.Current,
		Favorite: m.snapshot.Favorites.Contains(products.Current.ID),
		Styles:   m.styles,
	}.String()
}

func (m Model) renderCart() string {
	cart := m.snapshot.Cart
	if len(cart.Items) == 0 {
		return m.styles.Muted.Render("Tu carrito está vacío.")
	}

	var b strings.Builder
	for i, item := range cart.Items {
		line := fmt.Sprintf("%-28s %-20s x%-3d %s",
			truncate(item.Name, 28),
			truncate(strings.Join(item.Attributes, " / "), 20),
			item.Quantity,
			ux.Money(item.LineTotal(), ""))
		if i == m.cartLine {
			b.WriteString(m.styles.Highlighted.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Artículos: %d\n", cart.TotalQuantities))
	if d := cart.Discount(); d.IsPositive() {
		b.WriteString(m.styles.Discount.Render("Descuento: -"+ux.Money(d, "")) + "\n")
	}
	b.WriteString(m.styles.Price.Render("Total: " + ux.Money(cart.Total(), "")))
	return b.String()
}

func (m Model) renderHelp() string {
	return m.styles.Subtitle.Render("Atajos de teclado") + "\n\n" + m.help.View(keys)
}

// renderStatus shows the last notice or an error no view displays itself.
func (m Model) renderStatus() string {
	if m.status != "" {
		if m.statusIsErr {
			return m.styles.Error.Render("✗ " + m.status)
		}
		return m.styles.Success.Render("✓ " + m.status)
	}
	if e := m.snapshot.Favorites.Error; e != "" {
		return m.styles.Warning.Render("⚠ " + e)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
