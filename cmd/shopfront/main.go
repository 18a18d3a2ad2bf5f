package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/shopfront/internal/cmd"
	"github.com/felixgeelhaar/shopfront/internal/exitcode"
	"github.com/felixgeelhaar/shopfront/internal/state"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
			stop()
			exitcode.Exit(exitcode.Interrupted)
		}

		fmt.Fprintln(os.Stderr, ux.RenderError(err, ux.NewStyles(state.ThemeLight)))
		stop()
		exitcode.ExitWithError(err)
	}
}
