package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookdam/bookdam/domain/account"
	"github.com/bookdam/bookdam/internal/database"
)

// UserStore implements account.UserStore using GORM.
type UserStore struct {
	db     database.Database
	mapper UserMapper
}

// NewUserStore creates a new UserStore.
func NewUserStore(db database.Database) UserStore {
	return UserStore{db: db}
}

// ByID returns a user by database identifier.
func (s UserStore) ByID(ctx context.Context, id int64) (account.User, error) {
	var model UserModel
	err := s.db.Session(ctx).First(&model, id).Error
	if notFound(err) {
		return account.User{}, database.ErrNotFound
	}
	if err != nil {
		return account.User{}, fmt.Errorf("user by id: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// ByUsername returns a user by login name.
func (s UserStore) ByUsername(ctx context.Context, username string) (account.User, error) {
	var model UserModel
	err := s.db.Session(ctx).Where("username = ?", username).First(&model).Error
	if notFound(err) {
		return account.User{}, database.ErrNotFound
	}
	if err != nil {
		return account.User{}, fmt.Errorf("user by username: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// UsernameExists reports whether the login name is taken.
func (s UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.Session(ctx).Model(&UserModel{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

// Save creates or updates a user.
func (s UserStore) Save(ctx context.Context, user account.User) (account.User, error) {
	model := s.mapper.ToModel(user)
	if err := s.db.Session(ctx).Save(&model).Error; err != nil {
		return account.User{}, fmt.Errorf("save user: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// Delete removes a user. Owned rows cascade at the database level;
// the user's recommendation items go with their recommendations.
func (s UserStore) Delete(ctx context.Context, id int64) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		subquery := tx.Model(&RecommendationModel{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("recommendation_id IN (?)", subquery).Delete(&RecommendationItemModel{}).Error; err != nil {
			return fmt.Errorf("delete recommendation items: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&RecommendationModel{}).Error; err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&CommentModel{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&BookmarkModel{}).Error; err != nil {
			return fmt.Errorf("delete bookmarks: %w", err)
		}
		if err := tx.Delete(&UserModel{}, id).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

var _ account.UserStore = UserStore{}
