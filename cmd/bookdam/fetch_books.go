package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bookdam/bookdam"
	"github.com/bookdam/bookdam/internal/log"
)

func fetchBooksCmd() *cobra.Command {
	var (
		envFile  string
		queries  []string
		pages    int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "fetch-books",
		Short: "Ingest books from the Aladin search API",
		Long: `Ingest books from the Aladin ItemSearch API into the catalog.

Without --query the built-in Korean query set is used. Existing books
are updated in place, matched by ISBN-13. Requires ALADIN_API_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetchBooks(envFile, queries, pages, pageSize)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringSliceVar(&queries, "query", nil, "Search query, repeatable (default: built-in query set)")
	cmd.Flags().IntVar(&pages, "pages", 1, "Result pages to fetch per query")
	cmd.Flags().IntVar(&pageSize, "max-results", 50, "Results per page (Aladin caps this at 50)")

	return cmd
}

func runFetchBooks(envFile string, queries []string, pages, pageSize int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if cfg.AladinAPIKey() == "" {
		return fmt.Errorf("ALADIN_API_KEY is required to fetch books")
	}

	logger := log.New(cfg.LogLevel(), log.Format(cfg.LogFormat()))

	client, err := bookdam.New(bookdam.WithConfig(cfg), bookdam.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := client.Catalog.FetchBooks(ctx, queries, pages, pageSize)
	if err != nil {
		return fmt.Errorf("fetch books: %w", err)
	}

	fmt.Printf("fetched %d queries: %d created, %d updated, %d skipped\n",
		result.Queries, result.Created, result.Updated, result.Skipped)
	return nil
}
