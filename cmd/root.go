// Package cmd defines the CLI commands for the judge-scout executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eventra/judge-scout/internal/app"
	"github.com/eventra/judge-scout/internal/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "judge-scout",
		Short: "Discovers and ranks candidate judges for events.",
		Long: `judge-scout scrapes an expert directory through a remote headless
browser, scores the candidates it finds, persists them, and always returns a
ranked list even when the directory is unreachable.`,
		SilenceUsage: true,
	}

	cobra.OnInitialize(func() {
		// A local .env may carry the browserless token; missing is fine.
		_ = godotenv.Load()
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is environment only)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScrapeCmd())
	return cmd
}

// buildApp loads configuration and assembles the service container.
func buildApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize services: %w", err)
	}
	return a, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "judge-scout: %v\n", err)
		os.Exit(1)
	}
}
