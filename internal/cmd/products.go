package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Browse the catalogue",
	Long: `List catalogue pages and show product details. When signed in, your
favorites are marked with ♥.

Examples:
  shopfront products list
  shopfront products list --page 2 --page-size 24
  shopfront products show 3f6c9a`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of products",
	Args:  cobra.NoArgs,
	RunE:  runProductsList,
}

var productsShowCmd = &cobra.Command{
	Use:   "show <productId>",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

var (
	productsPage     int
	productsPageSize int
)

func init() {
	productsListCmd.Flags().IntVar(&productsPage, "page", api.DefaultPage, "page number, starting at 1")
	productsListCmd.Flags().IntVar(&productsPageSize, "page-size", api.DefaultPageSize, "products per page")

	productsCmd.AddCommand(productsListCmd, productsShowCmd)
	rootCmd.AddCommand(productsCmd)
}

// loadWithFavorites runs load and, when signed in, refreshes favorites
// concurrently. Favorites are decoration here: their failure is logged.
func loadWithFavorites(ctx context.Context, a *app.App, load func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return load(gctx) })
	if a.Tokens.Token(ctx) != "" {
		g.Go(func() error {
			if err := a.Store.FetchFavorites(gctx); err != nil {
				a.Logger.WithError(err).Debug("favorites unavailable")
			}
			return nil
		})
	}
	return g.Wait()
}

func favoriteChecker(a *app.App) func(string) bool {
	if !a.Store.State().Auth.IsAuthenticated {
		return nil
	}
	return a.Store.IsFavorite
}

func runProductsList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		err := loadWithFavorites(ctx, a, func(ctx context.Context) error {
			return a.Store.FetchProducts(ctx, productsPage, productsPageSize)
		})
		if err != nil {
			return err
		}

		products := a.Store.State().Products
		return cc.print(ux.ProductListView{
			Products:   products.Items,
			Meta:       products.Meta,
			IsFavorite: favoriteChecker(a),
			Styles:     cc.Styles,
		})
	})
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		err := loadWithFavorites(ctx, a, func(ctx context.Context) error {
			return a.Store.FetchProductByID(ctx, args[0])
		})
		if err != nil {
			return err
		}

		current := a.Store.State().Products.Current
		return cc.print(ux.ProductDetailView{
			Product:  *current,
			Favorite: a.Store.IsFavorite(current.ID),
			Styles:   cc.Styles,
		})
	})
}
