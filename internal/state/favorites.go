package state

import (
	"context"

	"github.com/felixgeelhaar/shopfront/internal/errors"
)

// FetchFavorites replaces the favorites list with the backend's.
func (s *Store) FetchFavorites(ctx context.Context) error {
	return s.run(ctx, keyFavoritesList, opFetchFavorites, favoritesPending{op: opFetchFavorites}, func(ctx context.Context) outcome {
		items, err := s.api.ListFavorites(ctx)
		if err != nil {
			return outcome{action: favoritesRejected{op: opFetchFavorites, message: errors.Message(err)}, err: err}
		}
		return outcome{action: favoritesFetched{items: items}}
	})
}

// AddFavorite marks productID as a favorite. The backend returns the bare
// association without the product snapshot, so the list is not touched;
// callers refetch to see the new entry.
func (s *Store) AddFavorite(ctx context.Context, productID string) error {
	return s.run(ctx, favoriteKey(opAddFavorite, productID), opAddFavorite, favoritesPending{op: opAddFavorite}, func(ctx context.Context) outcome {
		if _, err := s.api.AddFavorite(ctx, productID); err != nil {
			return outcome{action: favoritesRejected{op: opAddFavorite, message: errors.Message(err)}, err: err}
		}
		return outcome{action: favoriteAdded{}}
	})
}

// RemoveFavorite deletes the favorite for productID and drops it from the
// local list.
func (s *Store) RemoveFavorite(ctx context.Context, productID string) error {
	return s.run(ctx, favoriteKey(opRemoveFavorite, productID), opRemoveFavorite, favoritesPending{op: opRemoveFavorite}, func(ctx context.Context) outcome {
		if err := s.api.RemoveFavorite(ctx, productID); err != nil {
			return outcome{action: favoritesRejected{op: opRemoveFavorite, message: errors.Message(err)}, err: err}
		}
		return outcome{action: favoriteRemoved{productID: productID}}
	})
}

// ToggleFavorite removes productID from the favorites if present, otherwise
// adds it and refetches the list. It requires a session.
func (s *Store) ToggleFavorite(ctx context.Context, productID string) error {
	if s.tokens.Token(ctx) == "" {
		return errors.NewNotAuthenticatedError()
	}
	if s.IsFavorite(productID) {
		return s.RemoveFavorite(ctx, productID)
	}
	if err := s.AddFavorite(ctx, productID); err != nil {
		return err
	}
	return s.FetchFavorites(ctx)
}

// IsFavorite reports whether productID is in the current favorites list.
func (s *Store) IsFavorite(productID string) bool {
	return s.State().Favorites.Contains(productID)
}

// ClearFavoritesError dismisses the favorites error message.
func (s *Store) ClearFavoritesError() {
	s.dispatch(clearFavoritesError{})
}

func favoriteKey(op, productID string) string {
	return keyFavoritesPrefix + op + ":" + productID
}
