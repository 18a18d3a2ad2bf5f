package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/config"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

// closeTimeout bounds flushing traces and metrics after a command.
const closeTimeout = 5 * time.Second

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = map[string]string{
	"api-url":          "api.base_url",
	"output":           "output",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"locale":           "locale",
	"metrics-textfile": "metrics.textfile",
}

// CommandContext holds the resolved configuration and output settings of
// one command invocation. Commands build it in RunE instead of reading
// global state.
type CommandContext struct {
	Config    *config.Config
	Formatter ux.Formatter
	Styles    ux.Styles
}

// NewCommandContext loads configuration with the command's flag overrides.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]any, len(flagKeys))
	for flag, key := range flagKeys {
		value, err := cmd.Flags().GetString(flag)
		if err != nil {
			return nil, err
		}
		overrides[key] = value
	}

	cfg, err := config.Load(configFile, overrides)
	if err != nil {
		return nil, err
	}

	formatter, err := ux.NewFormatter(cfg.Output, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Config:    cfg,
		Formatter: formatter,
		Styles:    ux.NewStyles(app.DefaultTheme()),
	}, nil
}

// withApp builds the application for cmd, runs fn and closes it. The
// styles follow the persisted theme once the store is loaded.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, cc *CommandContext, a *app.App) error) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cc.Config)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if cerr := a.Close(closeCtx); cerr != nil {
			a.Logger.WithError(cerr).Warn("shutdown incomplete")
		}
	}()

	cc.Styles = ux.NewStyles(a.Store.State().Theme)
	return fn(ctx, cc, a)
}

// print writes v in the configured output format.
func (c *CommandContext) print(v any) error {
	if err := c.Formatter.Format(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
