package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/shopfront/internal/state"
)

// Run opens the browser over store and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, store *state.Store, pageSize int) error {
	changes := make(chan state.State, 1)
	unsubscribe := store.Subscribe(func(s state.State) {
		// Keep only the newest snapshot; the model ignores stale versions.
		select {
		case changes <- s:
		default:
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- s:
			default:
			}
		}
	})
	defer unsubscribe()

	model := NewModel(ctx, store, changes, pageSize)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
