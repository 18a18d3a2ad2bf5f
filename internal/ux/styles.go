package ux

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/shopfront/internal/state"
)

// Styles contains the lipgloss styles shared by command output and the
// interactive browser.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Price       lipgloss.Style
	Discount    lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Border      lipgloss.Style
	Highlighted lipgloss.Style
	Favorite    lipgloss.Style
	Help        lipgloss.Style
	Key         lipgloss.Style
	KeyDesc     lipgloss.Style
}

// palette holds the colours that differ between themes.
type palette struct {
	accent, text, muted, price, highlightFg lipgloss.Color
}

var palettes = map[state.Theme]palette{
	state.ThemeLight: {accent: "62", text: "235", muted: "245", price: "28", highlightFg: "230"},
	state.ThemeDark:  {accent: "213", text: "252", muted: "241", price: "120", highlightFg: "235"},
}

// NewStyles returns the styles for theme. Unknown themes use light.
func NewStyles(theme state.Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[state.ThemeLight]
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.text),
		Price: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.price),
		Discount: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		Highlighted: lipgloss.NewStyle().
			Background(p.accent).
			Foreground(p.highlightFg).
			Bold(true),
		Favorite: lipgloss.NewStyle().
			Foreground(lipgloss.Color("204")),
		Help: lipgloss.NewStyle().
			Foreground(p.muted).
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent),
		KeyDesc: lipgloss.NewStyle().
			Foreground(p.muted),
	}
}
