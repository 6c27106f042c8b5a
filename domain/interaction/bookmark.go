package interaction

import "time"

// Bookmark marks a book as saved by a user. A (user, book) pair is unique.
type Bookmark struct {
	id           int64
	userID       int64
	bookID       int64
	bookmarkedAt time.Time
}

// NewBookmark creates a bookmark that has not been persisted yet.
func NewBookmark(userID, bookID int64) Bookmark {
	return Bookmark{
		userID:       userID,
		bookID:       bookID,
		bookmarkedAt: time.Now(),
	}
}

// ReconstructBookmark recreates a bookmark from persistence.
func ReconstructBookmark(id, userID, bookID int64, bookmarkedAt time.Time) Bookmark {
	return Bookmark{
		id:           id,
		userID:       userID,
		bookID:       bookID,
		bookmarkedAt: bookmarkedAt,
	}
}

// ID returns the bookmark's database identifier.
func (b Bookmark) ID() int64 { return b.id }

// UserID returns the owning user's ID.
func (b Bookmark) UserID() int64 { return b.userID }

// BookID returns the bookmarked book's ID.
func (b Bookmark) BookID() int64 { return b.bookID }

// BookmarkedAt returns the creation timestamp.
func (b Bookmark) BookmarkedAt() time.Time { return b.bookmarkedAt }
