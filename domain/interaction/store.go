package interaction

import "context"

// CommentStore provides persistence for comments.
type CommentStore interface {
	// ByID returns a comment by database identifier.
	ByID(ctx context.Context, id int64) (Comment, error)

	// ForBook returns a book's comments, newest first.
	ForBook(ctx context.Context, bookID int64) ([]Comment, error)

	// ForUser returns a page of the user's comments, newest first, plus the
	// total count.
	ForUser(ctx context.Context, userID int64, limit, offset int) ([]Comment, int64, error)

	// CountForBook returns the number of comments on a book.
	CountForBook(ctx context.Context, bookID int64) (int64, error)

	// Save creates or updates a comment.
	Save(ctx context.Context, comment Comment) (Comment, error)

	// Delete removes a comment.
	Delete(ctx context.Context, id int64) error
}

// BookmarkStore provides persistence for bookmarks.
type BookmarkStore interface {
	// Add saves a bookmark. Adding an existing (user, book) pair is a no-op.
	Add(ctx context.Context, bookmark Bookmark) error

	// Remove deletes the user's bookmark on a book, if present.
	Remove(ctx context.Context, userID, bookID int64) error

	// Exists reports whether the user has bookmarked the book.
	Exists(ctx context.Context, userID, bookID int64) (bool, error)

	// ForUser returns a page of the user's bookmarks, newest first, plus the
	// total count.
	ForUser(ctx context.Context, userID int64, limit, offset int) ([]Bookmark, int64, error)

	// BookIDs returns the set of book IDs the user has bookmarked.
	// The recommendation pipeline uses it to exclude saved books.
	BookIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
}
