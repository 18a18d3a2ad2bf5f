package state

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/shopfront/internal/storage"
)

// SetTheme switches the colour scheme and persists the choice. A storage
// failure is logged; the in-memory theme still changes.
func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q (supported: light, dark)", theme)
	}
	s.mu.Lock()
	snap := s.applyLocked(themeSet{theme: theme})
	s.saveThemeLocked(ctx, theme)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) Theme {
	s.mu.Lock()
	theme := s.state.Theme.Toggle()
	snap := s.applyLocked(themeSet{theme: theme})
	s.saveThemeLocked(ctx, theme)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
	return theme
}

func (s *Store) saveThemeLocked(ctx context.Context, theme Theme) {
	if s.storage == nil {
		return
	}
	err := s.storage.Set(ctx, storage.KeyTheme, string(theme))
	s.metrics.ObserveStorage("set", err)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "failed to persist theme")
	}
}

func (s *Store) loadTheme(ctx context.Context, fallback Theme) Theme {
	if !fallback.Valid() {
		fallback = ThemeLight
	}
	if s.storage == nil {
		return fallback
	}
	raw, found, err := s.storage.Get(ctx, storage.KeyTheme)
	s.metrics.ObserveStorage("get", err)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "failed to read theme")
		return fallback
	}
	if theme := Theme(raw); found && theme.Valid() {
		return theme
	}
	return fallback
}
