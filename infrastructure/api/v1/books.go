package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookdam/bookdam"
	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/infrastructure/api/middleware"
	"github.com/bookdam/bookdam/infrastructure/api/v1/dto"
)

// BooksRouter handles catalog endpoints.
type BooksRouter struct {
	client *bookdam.Client
	logger *slog.Logger
}

// NewBooksRouter creates a BooksRouter.
func NewBooksRouter(client *bookdam.Client) *BooksRouter {
	return &BooksRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for catalog endpoints. Listing and
// detail are open; comments and bookmarks need an authenticated user.
// optional resolves the user when a token is present so book detail can
// report the bookmarked flag.
func (b *BooksRouter) Routes(require, optional func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", b.List)
	router.Get("/categories", b.Categories)

	router.Group(func(r chi.Router) {
		r.Use(optional)
		r.Get("/{id}", b.Get)
		r.Get("/{id}/comments", b.ListComments)
	})

	router.Group(func(r chi.Router) {
		r.Use(require)
		r.Post("/{id}/comments", b.AddComment)
		r.Put("/{id}/bookmark", b.AddBookmark)
		r.Delete("/{id}/bookmark", b.RemoveBookmark)
	})

	return router
}

// List handles GET /api/v1/books. Supported query parameters: q, field
// (all/title/author/publisher), category, sort (latest/oldest), page,
// page_size.
func (b *BooksRouter) List(w http.ResponseWriter, req *http.Request) {
	pagination := ParsePagination(req)
	query := searchQuery(req, pagination)

	books, total, err := b.client.Catalog.Search(req.Context(), query)
	if err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.BookListResponse{
		Books:      dto.FromBooks(books),
		Pagination: paginationMeta(pagination, total),
	})
}

// Get handles GET /api/v1/books/{id}. The bookmarked flag is always
// false for anonymous requests.
func (b *BooksRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	ctx := req.Context()

	book, err := b.client.Catalog.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	commentCount, err := b.client.Interactions.CommentCount(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	bookmarked := false
	if userID, authed := middleware.UserID(ctx); authed {
		bookmarked, err = b.client.Interactions.IsBookmarked(ctx, userID, id)
		if err != nil {
			middleware.WriteError(w, req, err, b.logger)
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, dto.BookDetailResponse{
		BookResponse: dto.FromBook(book),
		CommentCount: commentCount,
		Bookmarked:   bookmarked,
	})
}

// Categories handles GET /api/v1/books/categories.
func (b *BooksRouter) Categories(w http.ResponseWriter, req *http.Request) {
	categories, err := b.client.Catalog.Categories(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.FromCategory(c))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// ListComments handles GET /api/v1/books/{id}/comments.
func (b *BooksRouter) ListComments(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	comments, err := b.client.Interactions.CommentsForBook(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromComments(comments))
}

// AddComment handles POST /api/v1/books/{id}/comments.
func (b *BooksRouter) AddComment(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	var body dto.CommentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), b.logger)
		return
	}
	userID, _ := middleware.UserID(req.Context())

	comment, err := b.client.Interactions.AddComment(req.Context(), userID, id, body.Content)
	if err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.FromComment(comment))
}

// AddBookmark handles PUT /api/v1/books/{id}/bookmark.
func (b *BooksRouter) AddBookmark(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(req.Context())
	if err := b.client.Interactions.AddBookmark(req.Context(), userID, id); err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveBookmark handles DELETE /api/v1/books/{id}/bookmark.
func (b *BooksRouter) RemoveBookmark(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(req.Context())
	if err := b.client.Interactions.RemoveBookmark(req.Context(), userID, id); err != nil {
		middleware.WriteError(w, req, err, b.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func searchQuery(req *http.Request, pagination PaginationParams) catalog.SearchQuery {
	q := req.URL.Query()

	field := catalog.SearchField(q.Get("field"))
	switch field {
	case catalog.FieldTitle, catalog.FieldAuthor, catalog.FieldPublisher:
	default:
		field = catalog.FieldAll
	}

	sort := catalog.SortLatest
	if q.Get("sort") == string(catalog.SortOldest) {
		sort = catalog.SortOldest
	}

	var categoryID int64
	if raw := q.Get("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			categoryID = id
		}
	}

	return catalog.SearchQuery{
		Query:      q.Get("q"),
		Field:      field,
		CategoryID: categoryID,
		Sort:       sort,
		Limit:      pagination.PageSize(),
		Offset:     pagination.Offset(),
	}
}
