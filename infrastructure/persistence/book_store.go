package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/internal/database"
)

// BookStore implements catalog.BookStore using GORM.
type BookStore struct {
	db     database.Database
	mapper BookMapper
}

// NewBookStore creates a new BookStore.
func NewBookStore(db database.Database) BookStore {
	return BookStore{db: db}
}

// ByID returns a single book with its category loaded.
func (s BookStore) ByID(ctx context.Context, id int64) (catalog.Book, error) {
	var model BookModel
	err := s.db.Session(ctx).Preload("Category").First(&model, id).Error
	if notFound(err) {
		return catalog.Book{}, database.ErrNotFound
	}
	if err != nil {
		return catalog.Book{}, fmt.Errorf("book by id: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// ByISBN returns a single book by its ISBN-13.
func (s BookStore) ByISBN(ctx context.Context, isbn13 string) (catalog.Book, error) {
	var model BookModel
	err := s.db.Session(ctx).Preload("Category").Where("isbn13 = ?", isbn13).First(&model).Error
	if notFound(err) {
		return catalog.Book{}, database.ErrNotFound
	}
	if err != nil {
		return catalog.Book{}, fmt.Errorf("book by isbn: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// Search returns a page of books matching the query plus the total count.
func (s BookStore) Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Book, int64, error) {
	filtered := func() *gorm.DB {
		session := s.db.Session(ctx).Model(&BookModel{})
		if q.Query != "" {
			pattern := "%" + q.Query + "%"
			switch q.Field {
			case catalog.FieldTitle:
				session = session.Where("title LIKE ?", pattern)
			case catalog.FieldAuthor:
				session = session.Where("author LIKE ?", pattern)
			case catalog.FieldPublisher:
				session = session.Where("publisher LIKE ?", pattern)
			default:
				session = session.Where("title LIKE ? OR author LIKE ? OR publisher LIKE ?", pattern, pattern, pattern)
			}
		}
		if q.CategoryID > 0 {
			session = session.Where("category_id = ?", q.CategoryID)
		}
		return session
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	order := "pub_date DESC, id DESC"
	if q.Sort == catalog.SortOldest {
		order = "pub_date ASC, id ASC"
	}

	var models []BookModel
	err := filtered().Preload("Category").
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search books: %w", err)
	}
	return s.toDomain(models), total, nil
}

// All returns books ordered by id, starting after afterID, up to limit.
func (s BookStore) All(ctx context.Context, afterID int64, limit int) ([]catalog.Book, error) {
	var models []BookModel
	err := s.db.Session(ctx).Preload("Category").
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return s.toDomain(models), nil
}

// Candidates returns the full catalog with categories loaded.
func (s BookStore) Candidates(ctx context.Context) ([]catalog.Book, error) {
	var models []BookModel
	err := s.db.Session(ctx).Preload("Category").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	return s.toDomain(models), nil
}

// Save creates or updates a book, keyed by ISBN-13.
func (s BookStore) Save(ctx context.Context, book catalog.Book) (catalog.Book, error) {
	model := s.mapper.ToModel(book)

	err := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "isbn13"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "author", "publisher", "cover", "description",
			"review_rank", "pub_date", "category_id",
		}),
	}).Create(&model).Error
	if err != nil {
		return catalog.Book{}, fmt.Errorf("save book: %w", err)
	}
	return s.ByISBN(ctx, model.ISBN13)
}

// Count returns the number of books in the catalog.
func (s BookStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.Session(ctx).Model(&BookModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (s BookStore) toDomain(models []BookModel) []catalog.Book {
	books := make([]catalog.Book, len(models))
	for i, m := range models {
		books[i] = s.mapper.ToDomain(m)
	}
	return books
}

var _ catalog.BookStore = BookStore{}
