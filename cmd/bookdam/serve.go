package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bookdam/bookdam"
	"github.com/bookdam/bookdam/infrastructure/api"
	"github.com/bookdam/bookdam/internal/config"
	"github.com/bookdam/bookdam/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                      Server host to bind to (default: 0.0.0.0)
  PORT                      Server port to listen on (default: 8080)
  DB_URL                    Database URL (default: sqlite:///bookdam.db)
  LOG_LEVEL                 Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                Log format: pretty, json (default: pretty)
  JWT_SECRET                Access token signing secret (required)
  JWT_ACCESS_MINUTES        Access token lifetime in minutes (default: 30)
  CORS_ALLOWED_ORIGINS      Comma-separated origin allow-list

  AI_ENDPOINT_*             AI service configuration
    PROVIDER                Backend: gemini, openai (default: gemini)
    BASE_URL                Base URL override (e.g. a proxy)
    API_KEY                 API key (required)
    MODEL                   Text model (default: gemini-2.5-flash)
    EMBED_MODEL             Embedding model (default: text-embedding-004)
    TIMEOUT                 Request timeout in seconds (default: 30)
  AI_EMBED_LAZY_LIMIT       On-demand embeddings per request (default: 10)

  ALADIN_API_KEY            TTB key, used by the fetch-books command`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if host != "" {
		cfg = cfg.Apply(config.WithHost(host))
	}
	if port != 0 {
		cfg = cfg.Apply(config.WithPort(port))
	}
	if cfg.JWTSecret() == "" {
		return fmt.Errorf("JWT_SECRET is required to serve the API")
	}
	if err := cfg.ValidateAI(); err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel(), log.Format(cfg.LogFormat()))
	logger.Info("starting bookdam", "version", version, "addr", cfg.Addr(), "db_url", cfg.DBURL())

	client, err := bookdam.New(bookdam.WithConfig(cfg), bookdam.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
