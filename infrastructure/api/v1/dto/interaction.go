package dto

import (
	"time"

	"github.com/bookdam/bookdam/application/service"
	"github.com/bookdam/bookdam/domain/interaction"
)

// CommentRequest is the body for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is a comment on the wire.
type CommentResponse struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentListResponse is a page of comments.
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}

// BookmarkResponse is a saved book on the wire.
type BookmarkResponse struct {
	Book         BookResponse `json:"book"`
	BookmarkedAt time.Time    `json:"bookmarked_at"`
}

// BookmarkListResponse is a page of saved books.
type BookmarkListResponse struct {
	Bookmarks  []BookmarkResponse `json:"bookmarks"`
	Pagination Pagination         `json:"pagination"`
}

// FromComment converts a comment to its wire shape.
func FromComment(c interaction.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID(),
		BookID:    c.BookID(),
		UserID:    c.UserID(),
		Content:   c.Content(),
		CreatedAt: c.CreatedAt(),
	}
}

// FromComments converts a comment slice to its wire shape.
func FromComments(comments []interaction.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, FromComment(c))
	}
	return out
}

// FromBookmarks converts bookmark-book pairs to their wire shape.
func FromBookmarks(bookmarks []service.BookmarkedBook) []BookmarkResponse {
	out := make([]BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, BookmarkResponse{
			Book:         FromBook(b.Book),
			BookmarkedAt: b.Bookmark.BookmarkedAt(),
		})
	}
	return out
}
