package dto

import (
	"time"

	"github.com/bookdam/bookdam/domain/catalog"
)

// Pagination is the paging block attached to list responses.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// BookResponse is a catalog book on the wire.
type BookResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Publisher   string     `json:"publisher"`
	ISBN13      string     `json:"isbn13"`
	Cover       string     `json:"cover"`
	Description string     `json:"description"`
	ReviewRank  *float64   `json:"review_rank"`
	PubDate     *time.Time `json:"pub_date"`
	Category    string     `json:"category"`
}

// BookDetailResponse is a book with its interaction context.
type BookDetailResponse struct {
	BookResponse
	CommentCount int64 `json:"comment_count"`
	Bookmarked   bool  `json:"bookmarked"`
}

// BookListResponse is a page of books.
type BookListResponse struct {
	Books      []BookResponse `json:"books"`
	Pagination Pagination     `json:"pagination"`
}

// CategoryResponse is a category on the wire.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FromBook converts a book to its wire shape.
func FromBook(b catalog.Book) BookResponse {
	return BookResponse{
		ID:          b.ID(),
		Title:       b.Title(),
		Author:      b.Author(),
		Publisher:   b.Publisher(),
		ISBN13:      b.ISBN13(),
		Cover:       b.Cover(),
		Description: b.Description(),
		ReviewRank:  b.ReviewRank(),
		PubDate:     b.PubDate(),
		Category:    b.CategoryName(),
	}
}

// FromBooks converts a book slice to its wire shape. The result is
// never nil so empty pages serialize as [].
func FromBooks(books []catalog.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, FromBook(b))
	}
	return out
}

// FromCategory converts a category to its wire shape.
func FromCategory(c catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID(), Name: c.Name()}
}
