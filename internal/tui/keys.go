package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the keyboard shortcuts of the browser
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Open     key.Binding
	Back     key.Binding
	Favorite key.Binding
	AddCart  key.Binding
	Cart     key.Binding
	More     key.Binding
	Less     key.Binding
	Drop     key.Binding
	Theme    key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "arriba")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "abajo")),
	NextPage: key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "página siguiente")),
	PrevPage: key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "página anterior")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ver producto")),
	Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "volver")),
	Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorito")),
	AddCart:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "añadir al carrito")),
	Cart:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "carrito")),
	More:     key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "una unidad más")),
	Less:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "una unidad menos")),
	Drop:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "quitar línea")),
	Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tema")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Favorite, k.AddCart, k.Cart, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.Open, k.Back, k.Favorite, k.AddCart},
		{k.Cart, k.More, k.Less, k.Drop},
		{k.Theme, k.Reload, k.Help, k.Quit},
	}
}
