package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/infrastructure/aladin"
	"github.com/bookdam/bookdam/internal/database"
)

// CatalogService serves book listings and seeds the catalog from the
// Aladin API.
type CatalogService struct {
	books      catalog.BookStore
	categories catalog.CategoryStore
	aladin     *aladin.Client
	logger     *slog.Logger
}

// NewCatalogService creates a CatalogService. The Aladin client may be
// nil when ingestion is not needed.
func NewCatalogService(books catalog.BookStore, categories catalog.CategoryStore, client *aladin.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{books: books, categories: categories, aladin: client, logger: logger}
}

// Search returns a page of books plus the total match count.
func (s *CatalogService) Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Book, int64, error) {
	return s.books.Search(ctx, q)
}

// Get returns one book with its category.
func (s *CatalogService) Get(ctx context.Context, id int64) (catalog.Book, error) {
	book, err := s.books.ByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return catalog.Book{}, ErrNotFound
	}
	return book, err
}

// Categories returns every category ordered by name.
func (s *CatalogService) Categories(ctx context.Context) ([]catalog.Category, error) {
	return s.categories.All(ctx)
}

// FetchResult summarizes one catalog ingestion run.
type FetchResult struct {
	Queries int
	Created int
	Updated int
	Skipped int
}

// FetchBooks walks the query list against the Aladin API and upserts
// every returned book. A query stops paging as soon as a page comes
// back empty; a failed query is logged and skipped rather than
// aborting the run.
func (s *CatalogService) FetchBooks(ctx context.Context, queries []string, pages, pageSize int) (FetchResult, error) {
	if s.aladin == nil {
		return FetchResult{}, errors.New("aladin client not configured")
	}
	if len(queries) == 0 {
		queries = aladin.DefaultQueries()
	}

	result := FetchResult{Queries: len(queries)}
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s.logger.InfoContext(ctx, "fetching books", "query", query)

		for page := 1; page <= pages; page++ {
			items, err := s.aladin.Search(ctx, query, pageSize, page)
			if err != nil {
				s.logger.WarnContext(ctx, "aladin search failed", "query", query, "page", page, "error", err)
				break
			}
			if len(items) == 0 {
				break
			}
			for _, item := range items {
				created, err := s.saveItem(ctx, item)
				if err != nil {
					s.logger.WarnContext(ctx, "save book failed", "isbn13", item.ISBN13, "error", err)
					result.Skipped++
					continue
				}
				if created {
					result.Created++
				} else {
					result.Updated++
				}
			}
		}
	}

	s.logger.InfoContext(ctx, "fetch complete",
		"queries", result.Queries, "created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	return result, nil
}

func (s *CatalogService) saveItem(ctx context.Context, item aladin.Item) (created bool, err error) {
	category, err := s.categories.GetOrCreate(ctx, item.Category)
	if err != nil {
		return false, fmt.Errorf("category: %w", err)
	}

	_, err = s.books.ByISBN(ctx, item.ISBN13)
	existed := err == nil
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return false, err
	}

	_, err = s.books.Save(ctx, catalog.NewBook(catalog.BookParams{
		Title:       item.Title,
		Author:      item.Author,
		Publisher:   item.Publisher,
		ISBN13:      item.ISBN13,
		Cover:       item.Cover,
		Description: item.Description,
		ReviewRank:  item.ReviewRank,
		PubDate:     item.PubDate,
		Category:    category,
	}))
	if err != nil {
		return false, err
	}
	return !existed, nil
}
