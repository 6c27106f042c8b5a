package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bookdam/bookdam"
	"github.com/bookdam/bookdam/application/service"
	"github.com/bookdam/bookdam/internal/log"
)

func embedBooksCmd() *cobra.Command {
	var (
		envFile     string
		batchSize   int
		force       bool
		limit       int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "embed-books",
		Short: "Compute and store embeddings for the catalog",
		Long: `Compute and store an embedding for every book in the catalog.

Books that already have a usable embedding are skipped unless --force
is set. Individual embedding failures are counted and skipped; the run
only aborts on storage errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbedBooks(envFile, service.IndexOptions{
				BatchSize:   batchSize,
				Force:       force,
				Limit:       limit,
				Concurrency: concurrency,
			})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&batchSize, "batch", 64, "Books per embedding call")
	cmd.Flags().BoolVar(&force, "force", false, "Recompute embeddings that already exist")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum books to process (0 = all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Batches in flight at once")

	return cmd
}

func runEmbedBooks(envFile string, opts service.IndexOptions) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAI(); err != nil {
		return err
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

	result, err := client.Indexer.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("embed books: %w", err)
	}

	fmt.Printf("processed %d books: %d embedded, %d skipped, %d failed\n",
		result.Processed, result.Embedded, result.Skipped, result.Failed)
	return nil
}
