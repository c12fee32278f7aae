package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/skeletor/cmd/skeletor"
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/styles"
)

func main() {
	// Ctrl-C stops a run between two entries
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := skeletor.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		if tip := errors.Tip(err); tip != "" {
			fmt.Fprintln(os.Stderr, styles.Render("Tip", "tip: "+tip))
		}
		stop()
		os.Exit(1)
	}
}
