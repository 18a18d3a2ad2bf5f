package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/state"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the color theme",
	Long: `The theme is stored with the rest of the client state and used by every
command and by 'shopfront browse'.

Examples:
  shopfront theme
  shopfront theme set dark
  shopfront theme toggle`,
	Args: cobra.NoArgs,
	RunE: runThemeGet,
}

var themeSetCmd = &cobra.Command{
	Use:       "set <light|dark>",
	Short:     "Set the theme",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(state.ThemeLight), string(state.ThemeDark)},
	RunE:      runThemeSet,
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	Args:  cobra.NoArgs,
	RunE:  runThemeToggle,
}

func init() {
	themeCmd.AddCommand(themeSetCmd, themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}

// themeView prints the theme name in its own palette.
type themeView struct {
	Theme  state.Theme `json:"theme" yaml:"theme"`
	styles func(string) string
}

func (v themeView) Data() any { return v }

func (v themeView) String() string {
	return fmt.Sprintf("theme: %s", v.styles(string(v.Theme)))
}

func printTheme(cc *CommandContext, theme state.Theme) error {
	return cc.print(themeView{Theme: theme, styles: func(s string) string { return cc.Styles.Highlighted.Render(s) }})
}

func runThemeGet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		return printTheme(cc, a.Store.State().Theme)
	})
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		if err := a.Store.SetTheme(ctx, state.Theme(args[0])); err != nil {
			return err
		}
		return printTheme(cc, a.Store.State().Theme)
	})
}

func runThemeToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, cc *CommandContext, a *app.App) error {
		return printTheme(cc, a.Store.ToggleTheme(ctx))
	})
}
