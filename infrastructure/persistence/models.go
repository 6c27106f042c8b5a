// Package persistence provides GORM-backed implementations of the
// domain store interfaces.
package persistence

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookdam/bookdam/internal/database"
)

// UserModel is the database representation of an account.
type UserModel struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"size:254"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name.
func (UserModel) TableName() string { return "users" }

// CategoryModel is the database representation of a category.
type CategoryModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:255;not null"`
}

// TableName overrides the table name.
func (CategoryModel) TableName() string { return "categories" }

// BookModel is the database representation of a book. Books are never
// deleted while referenced by recommendation items.
type BookModel struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"size:512;not null;index"`
	Author      string `gorm:"size:512"`
	Publisher   string `gorm:"size:255"`
	ISBN13      string `gorm:"column:isbn13;uniqueIndex;size:13;not null"`
	Cover       string `gorm:"size:512"`
	Description string `gorm:"type:text"`
	ReviewRank  *float64
	PubDate     *time.Time
	CategoryID  int64         `gorm:"index;not null"`
	Category    CategoryModel `gorm:"constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time
}

// TableName overrides the table name.
func (BookModel) TableName() string { return "books" }

// CommentModel is the database representation of a comment.
type CommentModel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;not null"`
	User      UserModel `gorm:"constraint:OnDelete:CASCADE"`
	BookID    int64     `gorm:"index;not null"`
	Book      BookModel `gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name.
func (CommentModel) TableName() string { return "comments" }

// BookmarkModel is the database representation of a bookmark. A user
// bookmarks a book at most once.
type BookmarkModel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"uniqueIndex:idx_bookmark_user_book;not null"`
	User      UserModel `gorm:"constraint:OnDelete:CASCADE"`
	BookID    int64     `gorm:"uniqueIndex:idx_bookmark_user_book;not null"`
	Book      BookModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName overrides the table name.
func (BookmarkModel) TableName() string { return "bookmarks" }

// BookEmbeddingModel stores one embedding per book. The vector is
// serialized as JSON; cosine scoring happens in process so the
// database never needs to understand it.
type BookEmbeddingModel struct {
	BookID    int64     `gorm:"primaryKey"`
	Book      BookModel `gorm:"constraint:OnDelete:CASCADE"`
	Vector    string    `gorm:"type:text"`
	Norm      float64
	Model     string `gorm:"size:100"`
	UpdatedAt time.Time
}

// TableName overrides the table name.
func (BookEmbeddingModel) TableName() string { return "book_embeddings" }

// RecommendationModel is one persisted pipeline run.
type RecommendationModel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;not null"`
	User      UserModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	Items     []RecommendationItemModel `gorm:"foreignKey:RecommendationID"`
}

// TableName overrides the table name.
func (RecommendationModel) TableName() string { return "recommendations" }

// RecommendationItemModel is one picked book within a run. Books stay
// referenced; deleting a recommended book is restricted so history
// never dangles.
type RecommendationItemModel struct {
	ID               int64     `gorm:"primaryKey"`
	RecommendationID int64     `gorm:"uniqueIndex:idx_rec_item_book;not null"`
	BookID           int64     `gorm:"uniqueIndex:idx_rec_item_book;not null"`
	Book             BookModel `gorm:"constraint:OnDelete:RESTRICT"`
	Reason           string    `gorm:"type:text;not null"`
}

// TableName overrides the table name.
func (RecommendationItemModel) TableName() string { return "recommendation_items" }

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&BookModel{},
		&CommentModel{},
		&BookmarkModel{},
		&BookEmbeddingModel{},
		&RecommendationModel{},
		&RecommendationItemModel{},
	)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
