// Package interaction provides domain types for user-book interactions:
// comments and bookmarks.
package interaction

import "time"

// Comment is a user's comment on a book.
type Comment struct {
	id        int64
	userID    int64
	bookID    int64
	content   string
	createdAt time.Time
}

// NewComment creates a comment that has not been persisted yet.
func NewComment(userID, bookID int64, content string) Comment {
	return Comment{
		userID:    userID,
		bookID:    bookID,
		content:   content,
		createdAt: time.Now(),
	}
}

// ReconstructComment recreates a comment from persistence.
func ReconstructComment(id, userID, bookID int64, content string, createdAt time.Time) Comment {
	return Comment{
		id:        id,
		userID:    userID,
		bookID:    bookID,
		content:   content,
		createdAt: createdAt,
	}
}

// ID returns the comment's database identifier.
func (c Comment) ID() int64 { return c.id }

// UserID returns the author's user ID.
func (c Comment) UserID() int64 { return c.userID }

// BookID returns the commented book's ID.
func (c Comment) BookID() int64 { return c.bookID }

// Content returns the comment text.
func (c Comment) Content() string { return c.content }

// CreatedAt returns the creation timestamp.
func (c Comment) CreatedAt() time.Time { return c.createdAt }

// WithContent returns a copy with the content replaced.
func (c Comment) WithContent(content string) Comment {
	c.content = content
	return c
}

// OwnedBy reports whether the comment belongs to the given user.
func (c Comment) OwnedBy(userID int64) bool { return c.userID == userID }
