// Package tui is the interactive catalogue browser behind 'shopfront browse'.
// The model renders state.Store snapshots; every backend call runs as a
// tea.Cmd so the UI never blocks on the network.
package tui

import (
	"context"
	stderrors "errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/domain"
	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/state"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

// ViewType represents the current view being displayed
type ViewType int

// View type constants
const (
	// ViewList is the paged product list
	ViewList ViewType = iota
	// ViewDetail shows the selected product
	ViewDetail
	// ViewCart shows the cart lines and totals
	ViewCart
	// ViewHelp is the help screen
	ViewHelp
)

// Model represents the browser state
type Model struct {
	ctx   context.Context
	store *state.Store

	// snapshot is the last store state the view was rendered from.
	snapshot state.State
	changes  <-chan state.State

	page     int
	pageSize int
	cursor   int
	cartLine int

	currentView  ViewType
	previousView ViewType
	width        int
	height       int
	ready        bool
	quitting     bool

	// status is a one-line notice such as "added to cart" or an error
	// that has no slice of its own.
	status      string
	statusIsErr bool

	spinner spinner.Model
	help    help.Model
	styles  ux.Styles
}

// Custom messages

// StateChangedMsg carries a store snapshot published by a subscriber.
type StateChangedMsg struct {
	State state.State
}

// opDoneMsg reports the end of a store operation started by the browser.
type opDoneMsg struct {
	op     string
	err    error
	notice string
}

// NewModel creates a browser over store. changes delivers store snapshots;
// it may be nil, in which case the model only refreshes after its own
// operations.
func NewModel(ctx context.Context, store *state.Store, changes <-chan state.State, pageSize int) Model {
	if pageSize <= 0 {
		pageSize = api.DefaultPageSize
	}
	snapshot := store.State()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Model{
		ctx:         ctx,
		store:       store,
		snapshot:    snapshot,
		changes:     changes,
		page:        api.DefaultPage,
		pageSize:    pageSize,
		currentView: ViewList,
		spinner:     sp,
		help:        help.New(),
		styles:      ux.NewStyles(snapshot.Theme),
	}
}

// Init loads the first page, the favorites of a signed-in user and starts
// listening for store changes (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.fetchPage(m.page), m.waitForChange()}
	if m.snapshot.Auth.IsAuthenticated {
		cmds = append(cmds, m.fetchFavorites())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case StateChangedMsg:
		m.setSnapshot(msg.State)
		return m, m.waitForChange()

	case opDoneMsg:
		m.setSnapshot(m.store.State())
		switch {
		case msg.err == nil:
			if msg.notice != "" {
				m.status, m.statusIsErr = msg.notice, false
			}
		case stderrors.Is(msg.err, state.ErrSuperseded), stderrors.Is(msg.err, context.Canceled):
			// A newer request owns the slice now.
		default:
			m.status, m.statusIsErr = errors.Message(msg.err), true
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setSnapshot replaces the rendered state and keeps cursors in range.
func (m *Model) setSnapshot(s state.State) {
	if s.Version < m.snapshot.Version {
		return
	}
	if s.Theme != m.snapshot.Theme {
		m.styles = ux.NewStyles(s.Theme)
	}
	m.snapshot = s
	m.cursor = clamp(m.cursor, len(s.Products.Items))
	m.cartLine = clamp(m.cartLine, len(s.Cart.Items))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	m.status, m.statusIsErr = "", false

	switch {
	case key.Matches(msg, keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView, m.currentView = m.currentView, ViewHelp
		}
		m.help.ShowAll = m.currentView == ViewHelp
		return m, nil

	case key.Matches(msg, keys.Theme):
		theme := m.store.ToggleTheme(m.ctx)
		m.setSnapshot(m.store.State())
		m.styles = ux.NewStyles(theme)
		return m, nil

	case key.Matches(msg, keys.Back):
		if m.currentView == ViewDetail {
			m.store.ClearCurrentProduct()
			m.setSnapshot(m.store.State())
		}
		m.currentView = ViewList
		m.help.ShowAll = false
		return m, nil

	case key.Matches(msg, keys.Cart):
		if m.currentView == ViewCart {
			m.currentView = ViewList
		} else {
			m.currentView = ViewCart
		}
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Products.Items
	meta := m.snapshot.Products.Meta

	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clamp(m.cursor-1, len(items))
	case key.Matches(msg, keys.Down):
		m.cursor = clamp(m.cursor+1, len(items))
	case key.Matches(msg, keys.NextPage):
		if meta != nil && meta.HasNext() {
			m.page = meta.Page + 1
			m.cursor = 0
			return m, m.fetchPage(m.page)
		}
	case key.Matches(msg, keys.PrevPage):
		if meta != nil && meta.HasPrev() {
			m.page = meta.Page - 1
			m.cursor = 0
			return m, m.fetchPage(m.page)
		}
	case key.Matches(msg, keys.Reload):
		return m, m.fetchPage(m.page)
	case key.Matches(msg, keys.Open):
		if p, ok := m.selected(); ok {
			m.currentView = ViewDetail
			return m, m.fetchProduct(p.ID)
		}
	case key.Matches(msg, keys.Favorite):
		if p, ok := m.selected(); ok {
			return m, m.toggleFavorite(p.ID)
		}
	case key.Matches(msg, keys.AddCart):
		if p, ok := m.selected(); ok {
			return m.addToCart(p)
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.snapshot.Products.Current
	if current == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Favorite):
		return m, m.toggleFavorite(current.ID)
	case key.Matches(msg, keys.AddCart):
		return m.addToCart(*current)
	case key.Matches(msg, keys.Reload):
		return m, m.fetchProduct(current.ID)
	}
	return m, nil
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.snapshot.Cart.Items
	switch {
	case key.Matches(msg, keys.Up):
		m.cartLine = clamp(m.cartLine-1, len(lines))
	case key.Matches(msg, keys.Down):
		m.cartLine = clamp(m.cartLine+1, len(lines))
	}
	if len(lines) == 0 {
		return m, nil
	}

	line := lines[m.cartLine]
	switch {
	case key.Matches(msg, keys.More):
		one := line
		one.Quantity = 1
		m.store.AddToCart(m.ctx, one)
	case key.Matches(msg, keys.Less):
		m.store.RemoveCartItem(m.ctx, line.ID, line.Attributes)
	case key.Matches(msg, keys.Drop):
		m.store.RemoveLineItem(m.ctx, line.ID, line.Attributes)
	default:
		return m, nil
	}
	m.setSnapshot(m.store.State())
	return m, nil
}

// selected returns the product under the cursor.
func (m Model) selected() (domain.Product, bool) {
	items := m.snapshot.Products.Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Product{}, false
	}
	return items[m.cursor], true
}

func (m Model) addToCart(p domain.Product) (tea.Model, tea.Cmd) {
	m.store.AddProductToCart(m.ctx, p, 1)
	m.setSnapshot(m.store.State())
	m.status = "Añadido al carrito: " + p.Name
	return m, nil
}

// Commands

// waitForChange blocks until the store publishes a snapshot.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		s, ok := <-changes
		if !ok {
			return nil
		}
		return StateChangedMsg{State: s}
	}
}

func (m Model) fetchPage(page int) tea.Cmd {
	ctx, store, size := m.ctx, m.store, m.pageSize
	return func() tea.Msg {
		return opDoneMsg{op: "products", err: store.FetchProducts(ctx, page, size)}
	}
}

func (m Model) fetchProduct(id string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return opDoneMsg{op: "product", err: store.FetchProductByID(ctx, id)}
	}
}

func (m Model) fetchFavorites() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return opDoneMsg{op: "favorites", err: store.FetchFavorites(ctx)}
	}
}

func (m Model) toggleFavorite(id string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		wasFavorite := store.IsFavorite(id)
		err := store.ToggleFavorite(ctx, id)
		notice := "Añadido a favoritos"
		if wasFavorite {
			notice = "Quitado de favoritos"
		}
		return opDoneMsg{op: "favorite", err: err, notice: notice}
	}
}
