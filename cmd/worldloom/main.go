// Package main provides the entry point for the worldloom application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "worldloom",
		Short:   "A persistent fantasy world simulator powered by LLM content generation",
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newWorldsCmd(),
		newPopulateCmd(),
		newAdminCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
