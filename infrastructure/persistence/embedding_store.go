package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/internal/database"
)

// EmbeddingStore implements recommend.EmbeddingStore using GORM.
type EmbeddingStore struct {
	db     database.Database
	mapper EmbeddingMapper
}

// NewEmbeddingStore creates a new EmbeddingStore.
func NewEmbeddingStore(db database.Database) EmbeddingStore {
	return EmbeddingStore{db: db}
}

// ForBook returns the stored embedding for a book.
func (s EmbeddingStore) ForBook(ctx context.Context, bookID int64) (recommend.BookEmbedding, bool, error) {
	var model BookEmbeddingModel
	err := s.db.Session(ctx).Where("book_id = ?", bookID).First(&model).Error
	if notFound(err) {
		return recommend.BookEmbedding{}, false, nil
	}
	if err != nil {
		return recommend.BookEmbedding{}, false, fmt.Errorf("embedding for book: %w", err)
	}
	return s.mapper.ToDomain(model), true, nil
}

// ForBooks bulk-loads stored embeddings keyed by book ID.
func (s EmbeddingStore) ForBooks(ctx context.Context, bookIDs []int64) (map[int64]recommend.BookEmbedding, error) {
	if len(bookIDs) == 0 {
		return map[int64]recommend.BookEmbedding{}, nil
	}
	var models []BookEmbeddingModel
	err := s.db.Session(ctx).Where("book_id IN ?", bookIDs).Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("embeddings for books: %w", err)
	}
	out := make(map[int64]recommend.BookEmbedding, len(models))
	for _, m := range models {
		out[m.BookID] = s.mapper.ToDomain(m)
	}
	return out, nil
}

// Save upserts the embedding for its book.
func (s EmbeddingStore) Save(ctx context.Context, embedding recommend.BookEmbedding) error {
	model, err := s.mapper.ToModel(embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	err = s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vector", "norm", "model", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

// MissingBookIDs returns IDs of books without a usable embedding, in
// ID order, up to limit.
func (s EmbeddingStore) MissingBookIDs(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	session := s.db.Session(ctx).Model(&BookModel{}).
		Joins("LEFT JOIN book_embeddings ON book_embeddings.book_id = books.id").
		Where("book_embeddings.book_id IS NULL OR book_embeddings.norm = 0 OR book_embeddings.vector = '' OR book_embeddings.vector = '[]'").
		Order("books.id ASC")
	if limit > 0 {
		session = session.Limit(limit)
	}
	if err := session.Pluck("books.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("missing embeddings: %w", err)
	}
	return ids, nil
}

var _ recommend.EmbeddingStore = EmbeddingStore{}
