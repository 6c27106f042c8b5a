package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/internal/database"
)

// CategoryStore implements catalog.CategoryStore using GORM.
type CategoryStore struct {
	db     database.Database
	mapper CategoryMapper
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(db database.Database) CategoryStore {
	return CategoryStore{db: db}
}

// GetOrCreate returns the category with the given name, creating it if absent.
func (s CategoryStore) GetOrCreate(ctx context.Context, name string) (catalog.Category, error) {
	model := CategoryModel{Name: name}
	err := s.db.Session(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&model).Error
	if err != nil {
		return catalog.Category{}, fmt.Errorf("create category: %w", err)
	}
	// DoNothing leaves the ID unset when the row already existed.
	if model.ID == 0 {
		if err := s.db.Session(ctx).Where("name = ?", name).First(&model).Error; err != nil {
			return catalog.Category{}, fmt.Errorf("load category: %w", err)
		}
	}
	return s.mapper.ToDomain(model), nil
}

// All returns every category ordered by name.
func (s CategoryStore) All(ctx context.Context) ([]catalog.Category, error) {
	var models []CategoryModel
	if err := s.db.Session(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]catalog.Category, len(models))
	for i, m := range models {
		categories[i] = s.mapper.ToDomain(m)
	}
	return categories, nil
}

var _ catalog.CategoryStore = CategoryStore{}
