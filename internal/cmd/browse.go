package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/api"
	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/tui"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalogue interactively",
	Long: `Open the full-screen catalogue browser. Page through products, open
details, toggle favorites and edit the cart without leaving the terminal.
Press ? inside the browser for the key bindings.

The session is verified in the background while you browse; an expired
token signs you out without interrupting the browser.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

var browsePageSize int

func init() {
	browseCmd.Flags().IntVar(&browsePageSize, "page-size", api.DefaultPageSize, "products per page")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !ux.Interactive() {
		return NewErrorWithSuggestions(
			"invalid argument: browse needs an interactive terminal",
			nil,
			"List products with: shopfront products list",
		)
	}

	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		go a.Bootstrap.Run(ctx)

		a.Logger.DebugContext(ctx, "starting browser", "page_size", browsePageSize)
		return tui.Run(ctx, a.Store, browsePageSize)
	})
}
