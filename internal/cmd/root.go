package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "Storefront client for the terminal",
	Long: `shopfront is a terminal client for the storefront: browse the catalogue,
keep favorites, fill a cart and manage your session.

Configuration is read from ~/.config/shopfront/config.yaml (or --config),
SHOPFRONT_* environment variables and the flags below, in increasing order
of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which every backend call
// inherits.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $XDG_CONFIG_HOME/shopfront/config.yaml)")
	flags.String("api-url", "", "backend base URL")
	flags.StringP("output", "o", "", "output format: text, json or yaml")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("locale", "", "language for error messages: es or en")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file on exit")
}
