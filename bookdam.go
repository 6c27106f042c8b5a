// Package bookdam is a book catalog with AI-assisted recommendations.
//
// Access resources via struct fields:
//
//	client.Catalog.Search(ctx, query)
//	client.Recommender.Recommend(ctx, userID, request)
package bookdam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bookdam/bookdam/application/service"
	"github.com/bookdam/bookdam/infrastructure/aladin"
	"github.com/bookdam/bookdam/infrastructure/embedder"
	"github.com/bookdam/bookdam/infrastructure/persistence"
	"github.com/bookdam/bookdam/infrastructure/provider"
	"github.com/bookdam/bookdam/internal/config"
	"github.com/bookdam/bookdam/internal/database"
	"github.com/bookdam/bookdam/internal/log"
)

// ErrNoDatabase indicates New was called without a database URL.
var ErrNoDatabase = errors.New("bookdam: no database configured")

// Client is the main entry point for the bookdam library.
type Client struct {
	// Public resource fields (direct service access)
	Accounts     *service.AccountService
	Catalog      *service.CatalogService
	Interactions *service.InteractionService
	Recommender  *service.Recommender
	Indexer      *service.Indexer

	db     database.Database
	ai     provider.Provider
	cfg    config.AppConfig
	logger *slog.Logger
	closed atomic.Bool
}

// New creates a Client with the given options, opens the database and
// runs migrations.
func New(opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, opt := range opts {
		opt(cc)
	}

	cfg := cc.appConfig
	if cfg.DBURL() == "" {
		return nil, ErrNoDatabase
	}

	logger := cc.logger
	if logger == nil {
		logger = log.New(cfg.LogLevel(), log.Format(cfg.LogFormat()))
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	// AI provider: injected for tests, built from config otherwise.
	ai := cc.ai
	if ai == nil {
		if err := cfg.ValidateAI(); err != nil {
			errClose := db.Close()
			return nil, errors.Join(err, errClose)
		}
		ai, err = provider.FromEndpoint(cfg.AI())
		if err != nil {
			errClose := db.Close()
			return nil, errors.Join(fmt.Errorf("create AI provider: %w", err), errClose)
		}
	}

	bookStore := persistence.NewBookStore(db)
	categoryStore := persistence.NewCategoryStore(db)
	userStore := persistence.NewUserStore(db)
	commentStore := persistence.NewCommentStore(db)
	bookmarkStore := persistence.NewBookmarkStore(db)
	embeddingStore := persistence.NewEmbeddingStore(db)
	recommendationStore := persistence.NewRecommendationStore(db)

	embedSvc := embedder.NewService(ai, embeddingStore, cfg.AI().EmbedModel(), cfg.MaxEmbedChars(), logger)
	tokens := service.NewTokenManager(cfg.JWTSecret(), cfg.JWTAccessTTL())

	var aladinClient *aladin.Client
	if cfg.AladinAPIKey() != "" {
		aladinClient = aladin.NewClient(cfg.AladinAPIKey(), cc.aladin...)
	}

	c := &Client{
		Accounts:     service.NewAccountService(userStore, tokens, logger),
		Catalog:      service.NewCatalogService(bookStore, categoryStore, aladinClient, logger),
		Interactions: service.NewInteractionService(commentStore, bookmarkStore, bookStore, logger),
		Recommender: service.NewRecommender(
			bookStore, bookmarkStore, embeddingStore, recommendationStore,
			ai, embedSvc, cfg.EmbedLazyLimit(), logger,
		),
		Indexer: service.NewIndexer(bookStore, embeddingStore, embedSvc, logger),
		db:      db,
		ai:      ai,
		cfg:     cfg,
		logger:  logger,
	}
	return c, nil
}

// Close releases the database and provider connections. Safe to call
// more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	if c.ai != nil {
		if err := c.ai.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the resolved application configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// Database exposes the underlying database for migrations and tests.
func (c *Client) Database() database.Database {
	return c.db
}
