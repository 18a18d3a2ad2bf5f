package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav", "favs"},
	Short:   "Manage your favorite products",
	Long: `List, add and remove favorites. All favorites commands need a session.

Examples:
  shopfront favorites list
  shopfront favorites add 3f6c9a
  shopfront favorites toggle 3f6c9a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorites",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <productId>",
	Short: "Add a product to your favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <productId>",
	Aliases: []string{"rm"},
	Short:   "Remove a product from your favorites",
	Args:    cobra.ExactArgs(1),
	RunE:    runFavoritesRemove,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <productId>",
	Short: "Add the product if it is not a favorite, remove it otherwise",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesToggle,
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesToggleCmd)
	rootCmd.AddCommand(favoritesCmd)
}

// withSession is withApp for commands that need a stored token.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, cc *CommandContext, a *app.App) error) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if a.Tokens.Token(ctx) == "" {
			return errors.NewNotAuthenticatedError()
		}
		return fn(ctx, cc, a)
	})
}

func printFavorites(cc *CommandContext, a *app.App) error {
	return cc.print(ux.FavoriteListView{Items: a.Store.State().Favorites.Items, Styles: cc.Styles})
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.FetchFavorites(ctx); err != nil {
			return err
		}
		return printFavorites(cc, a)
	})
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.AddFavorite(ctx, args[0]); err != nil {
			return err
		}
		if err := a.Store.FetchFavorites(ctx); err != nil {
			return err
		}
		return printFavorites(cc, a)
	})
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.FetchFavorites(ctx); err != nil {
			return err
		}
		if err := a.Store.RemoveFavorite(ctx, args[0]); err != nil {
			return err
		}
		return printFavorites(cc, a)
	})
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		// The toggle decides from the local list, so load it first.
		if err := a.Store.FetchFavorites(ctx); err != nil {
			return err
		}
		if err := a.Store.ToggleFavorite(ctx, args[0]); err != nil {
			return err
		}
		return printFavorites(cc, a)
	})
}
