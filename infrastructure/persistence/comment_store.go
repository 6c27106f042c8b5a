package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/internal/database"
)

// CommentStore implements interaction.CommentStore using GORM.
type CommentStore struct {
	db     database.Database
	mapper CommentMapper
}

// NewCommentStore creates a new CommentStore.
func NewCommentStore(db database.Database) CommentStore {
	return CommentStore{db: db}
}

// ByID returns a comment by database identifier.
func (s CommentStore) ByID(ctx context.Context, id int64) (interaction.Comment, error) {
	var model CommentModel
	err := s.db.Session(ctx).First(&model, id).Error
	if notFound(err) {
		return interaction.Comment{}, database.ErrNotFound
	}
	if err != nil {
		return interaction.Comment{}, fmt.Errorf("comment by id: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// ForBook returns a book's comments, newest first.
func (s CommentStore) ForBook(ctx context.Context, bookID int64) ([]interaction.Comment, error) {
	var models []CommentModel
	err := s.db.Session(ctx).
		Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("comments for book: %w", err)
	}
	return s.toDomain(models), nil
}

// ForUser returns a page of the user's comments, newest first, plus
// the total count.
func (s CommentStore) ForUser(ctx context.Context, userID int64, limit, offset int) ([]interaction.Comment, int64, error) {
	filtered := func() *gorm.DB {
		return s.db.Session(ctx).Model(&CommentModel{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var models []CommentModel
	err := filtered().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("comments for user: %w", err)
	}
	return s.toDomain(models), total, nil
}

// CountForBook returns the number of comments on a book.
func (s CommentStore) CountForBook(ctx context.Context, bookID int64) (int64, error) {
	var total int64
	err := s.db.Session(ctx).Model(&CommentModel{}).Where("book_id = ?", bookID).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return total, nil
}

// Save creates or updates a comment.
func (s CommentStore) Save(ctx context.Context, comment interaction.Comment) (interaction.Comment, error) {
	model := s.mapper.ToModel(comment)
	if err := s.db.Session(ctx).Save(&model).Error; err != nil {
		return interaction.Comment{}, fmt.Errorf("save comment: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// Delete removes a comment.
func (s CommentStore) Delete(ctx context.Context, id int64) error {
	if err := s.db.Session(ctx).Delete(&CommentModel{}, id).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s CommentStore) toDomain(models []CommentModel) []interaction.Comment {
	comments := make([]interaction.Comment, len(models))
	for i, m := range models {
		comments[i] = s.mapper.ToDomain(m)
	}
	return comments
}

var _ interaction.CommentStore = CommentStore{}
