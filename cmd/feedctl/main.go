package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zfogg/factoryfeed/internal/container"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Operations tool for the factory feed",
	Long: `feedctl manages the factory feed database and runs the feed
handler locally behind an HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
				return fmt.Errorf("failed to enable debug logging: %w", err)
			}
		}
		return nil
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reconcileCmd)
}

// withContainer bootstraps dependencies, runs fn and cleans up afterwards
func withContainer(ctx context.Context, fn func(*container.Container) error) error {
	c, err := container.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer c.Cleanup(context.Background())
	return fn(c)
}
