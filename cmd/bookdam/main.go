// Package main is the entry point for the bookdam CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookdam/bookdam/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookdam",
		Short: "Bookdam book catalog and recommendation server",
		Long:  `Bookdam is a book catalog backend with AI-assisted recommendations: it ingests books from the Aladin search API, embeds them, and recommends against free-form reading prompts.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(fetchBooksCmd())
	cmd.AddCommand(embedBooksCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from the .env file and environment
// variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
