package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/internal/database"
)

// ErrEmptyContent rejects a comment without text.
var ErrEmptyContent = errors.New("comment content is required")

// InteractionService handles comments and bookmarks.
type InteractionService struct {
	comments  interaction.CommentStore
	bookmarks interaction.BookmarkStore
	books     catalog.BookStore
	logger    *slog.Logger
}

// NewInteractionService creates an InteractionService.
func NewInteractionService(comments interaction.CommentStore, bookmarks interaction.BookmarkStore, books catalog.BookStore, logger *slog.Logger) *InteractionService {
	return &InteractionService{comments: comments, bookmarks: bookmarks, books: books, logger: logger}
}

// AddComment posts a comment on a book.
func (s *InteractionService) AddComment(ctx context.Context, userID, bookID int64, content string) (interaction.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return interaction.Comment{}, ErrEmptyContent
	}
	if _, err := s.books.ByID(ctx, bookID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return interaction.Comment{}, ErrNotFound
		}
		return interaction.Comment{}, err
	}
	return s.comments.Save(ctx, interaction.NewComment(userID, bookID, content))
}

// UpdateComment edits a comment the user owns.
func (s *InteractionService) UpdateComment(ctx context.Context, userID, commentID int64, content string) (interaction.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return interaction.Comment{}, ErrEmptyContent
	}
	comment, err := s.ownedComment(ctx, userID, commentID)
	if err != nil {
		return interaction.Comment{}, err
	}
	return s.comments.Save(ctx, comment.WithContent(content))
}

// DeleteComment removes a comment the user owns.
func (s *InteractionService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	if _, err := s.ownedComment(ctx, userID, commentID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

// CommentsForBook returns a book's comments, newest first.
func (s *InteractionService) CommentsForBook(ctx context.Context, bookID int64) ([]interaction.Comment, error) {
	return s.comments.ForBook(ctx, bookID)
}

// CommentCount returns the number of comments on a book.
func (s *InteractionService) CommentCount(ctx context.Context, bookID int64) (int64, error) {
	return s.comments.CountForBook(ctx, bookID)
}

// CommentsForUser returns a page of the user's comments plus the total.
func (s *InteractionService) CommentsForUser(ctx context.Context, userID int64, limit, offset int) ([]interaction.Comment, int64, error) {
	return s.comments.ForUser(ctx, userID, limit, offset)
}

// AddBookmark saves a book for the user. Saving twice is a no-op.
func (s *InteractionService) AddBookmark(ctx context.Context, userID, bookID int64) error {
	if _, err := s.books.ByID(ctx, bookID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.bookmarks.Add(ctx, interaction.NewBookmark(userID, bookID))
}

// RemoveBookmark drops the user's bookmark on a book.
func (s *InteractionService) RemoveBookmark(ctx context.Context, userID, bookID int64) error {
	return s.bookmarks.Remove(ctx, userID, bookID)
}

// IsBookmarked reports whether the user saved the book.
func (s *InteractionService) IsBookmarked(ctx context.Context, userID, bookID int64) (bool, error) {
	return s.bookmarks.Exists(ctx, userID, bookID)
}

// BookmarkedBook is a bookmark joined with its book.
type BookmarkedBook struct {
	Bookmark interaction.Bookmark
	Book     catalog.Book
}

// BookmarksForUser returns a page of the user's saved books, newest
// first, plus the total.
func (s *InteractionService) BookmarksForUser(ctx context.Context, userID int64, limit, offset int) ([]BookmarkedBook, int64, error) {
	bookmarks, total, err := s.bookmarks.ForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BookmarkedBook, 0, len(bookmarks))
	for _, bm := range bookmarks {
		book, err := s.books.ByID(ctx, bm.BookID())
		if err != nil {
			return nil, 0, fmt.Errorf("load bookmarked book: %w", err)
		}
		out = append(out, BookmarkedBook{Bookmark: bm, Book: book})
	}
	return out, total, nil
}

func (s *InteractionService) ownedComment(ctx context.Context, userID, commentID int64) (interaction.Comment, error) {
	comment, err := s.comments.ByID(ctx, commentID)
	if errors.Is(err, database.ErrNotFound) {
		return interaction.Comment{}, ErrNotFound
	}
	if err != nil {
		return interaction.Comment{}, err
	}
	if !comment.OwnedBy(userID) {
		return interaction.Comment{}, ErrForbidden
	}
	return comment, nil
}
