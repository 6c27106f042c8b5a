package catalog

import "context"

// SortOrder controls catalog listing order.
type SortOrder string

// SortOrder values.
const (
	SortLatest SortOrder = "latest"
	SortOldest SortOrder = "oldest"
)

// SearchField selects which field a catalog text search matches against.
type SearchField string

// SearchField values.
const (
	FieldAll       SearchField = "all"
	FieldTitle     SearchField = "title"
	FieldAuthor    SearchField = "author"
	FieldPublisher SearchField = "publisher"
)

// SearchQuery describes a catalog listing request.
type SearchQuery struct {
	Query      string
	Field      SearchField
	CategoryID int64
	Sort       SortOrder
	Limit      int
	Offset     int
}

// BookStore provides persistence for books.
type BookStore interface {
	// ByID returns a single book with its category loaded.
	ByID(ctx context.Context, id int64) (Book, error)

	// ByISBN returns a single book by its ISBN-13.
	ByISBN(ctx context.Context, isbn13 string) (Book, error)

	// Search returns a page of books matching the query plus the total count.
	Search(ctx context.Context, q SearchQuery) ([]Book, int64, error)

	// All returns books ordered by id, starting after afterID, up to limit.
	// Used for batch embedding walks.
	All(ctx context.Context, afterID int64, limit int) ([]Book, error)

	// Candidates returns the full catalog with categories loaded, for the
	// recommendation pipeline.
	Candidates(ctx context.Context) ([]Book, error)

	// Save creates or updates a book.
	Save(ctx context.Context, book Book) (Book, error)

	// Count returns the number of books in the catalog.
	Count(ctx context.Context) (int64, error)
}

// CategoryStore provides persistence for categories.
type CategoryStore interface {
	// GetOrCreate returns the category with the given name, creating it if absent.
	GetOrCreate(ctx context.Context, name string) (Category, error)

	// All returns every category ordered by name.
	All(ctx context.Context) ([]Category, error)
}
