package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/internal/database"
)

// BookmarkStore implements interaction.BookmarkStore using GORM.
type BookmarkStore struct {
	db     database.Database
	mapper BookmarkMapper
}

// NewBookmarkStore creates a new BookmarkStore.
func NewBookmarkStore(db database.Database) BookmarkStore {
	return BookmarkStore{db: db}
}

// Add saves a bookmark. Adding an existing (user, book) pair is a no-op.
func (s BookmarkStore) Add(ctx context.Context, bookmark interaction.Bookmark) error {
	model := s.mapper.ToModel(bookmark)
	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

// Remove deletes the user's bookmark on a book, if present.
func (s BookmarkStore) Remove(ctx context.Context, userID, bookID int64) error {
	err := s.db.Session(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&BookmarkModel{}).Error
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// Exists reports whether the user has bookmarked the book.
func (s BookmarkStore) Exists(ctx context.Context, userID, bookID int64) (bool, error) {
	var count int64
	err := s.db.Session(ctx).Model(&BookmarkModel{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return count > 0, nil
}

// ForUser returns a page of the user's bookmarks, newest first, plus
// the total count.
func (s BookmarkStore) ForUser(ctx context.Context, userID int64, limit, offset int) ([]interaction.Bookmark, int64, error) {
	filtered := func() *gorm.DB {
		return s.db.Session(ctx).Model(&BookmarkModel{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", err)
	}

	var models []BookmarkModel
	err := filtered().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("bookmarks for user: %w", err)
	}
	bookmarks := make([]interaction.Bookmark, len(models))
	for i, m := range models {
		bookmarks[i] = s.mapper.ToDomain(m)
	}
	return bookmarks, total, nil
}

// BookIDs returns the set of book IDs the user has bookmarked.
func (s BookmarkStore) BookIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	var ids []int64
	err := s.db.Session(ctx).Model(&BookmarkModel{}).
		Where("user_id = ?", userID).
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("bookmarked book ids: %w", err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

var _ interaction.BookmarkStore = BookmarkStore{}
