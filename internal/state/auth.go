package state

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// Register creates an account. On success the token is persisted and the
// session is marked authenticated; the user profile is loaded separately by
// GetCurrentUser.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	return s.run(ctx, keyAuth, opRegister, authPending{op: opRegister}, func(ctx context.Context) outcome {
		if _, err := s.api.Register(ctx, name, email, password); err != nil {
			return outcome{action: authRejected{op: opRegister, message: errors.Message(err)}, err: err}
		}
		return outcome{action: authFulfilled{op: opRegister}, effect: s.supersedeFavoritesLocked}
	})
}

// Login authenticates with email and password.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.run(ctx, keyAuth, opLogin, authPending{op: opLogin}, func(ctx context.Context) outcome {
		if _, err := s.api.Login(ctx, email, password); err != nil {
			return outcome{action: authRejected{op: opLogin, message: errors.Message(err)}, err: err}
		}
		return outcome{action: authFulfilled{op: opLogin}, effect: s.supersedeFavoritesLocked}
	})
}

// GetCurrentUser loads the profile behind the stored token. Without a token
// it fails immediately and leaves the state alone. A 401 from the backend
// means the token is no longer valid: it is removed from storage and the
// session is reset.
func (s *Store) GetCurrentUser(ctx context.Context) error {
	if s.tokens.Token(ctx) == "" {
		return errors.NewNotAuthenticatedError()
	}
	return s.run(ctx, keyAuth, opCurrentUser, currentUserPending{}, func(ctx context.Context) outcome {
		user, err := s.api.Me(ctx)
		if err == nil {
			return outcome{action: currentUserLoaded{user: *user}}
		}
		failed := currentUserFailed{message: errors.Message(err)}
		out := outcome{action: failed, err: err}
		if errors.IsUnauthorized(err) || errors.IsCode(err, errors.ErrCodeNotAuthenticated) {
			failed.expired = true
			out.action = failed
			out.effect = func() { s.clearTokenLocked(ctx) }
		}
		return out
	})
}

// Logout ends the session. It always succeeds locally: in-flight session and
// favorites requests are superseded, the token is removed and the session
// and favorites slices are reset. A storage failure is logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.supersedeLocked(keyAuth)
	s.supersedeFavoritesLocked()
	s.clearTokenLocked(ctx)
	snap := s.applyLocked(loggedOut{})
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
}

// ClearAuthError dismisses the session error message.
func (s *Store) ClearAuthError() {
	s.dispatch(clearAuthError{})
}

// supersedeFavoritesLocked invalidates every in-flight favorites request:
// the list and each pending add or remove. They belong to the session that
// is being replaced.
func (s *Store) supersedeFavoritesLocked() {
	for key := range s.seq {
		if strings.HasPrefix(key, keyFavoritesPrefix) {
			s.seq[key]++
		}
	}
}

func (s *Store) clearTokenLocked(ctx context.Context) {
	err := s.tokens.ClearToken(ctx)
	s.metrics.ObserveStorage("remove", err)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "failed to remove session token")
	}
}
