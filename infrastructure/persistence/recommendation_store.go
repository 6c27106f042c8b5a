package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/internal/database"
)

// RecommendationStore implements recommend.RecommendationStore using GORM.
type RecommendationStore struct {
	db     database.Database
	mapper RecommendationMapper
}

// NewRecommendationStore creates a new RecommendationStore.
func NewRecommendationStore(db database.Database) RecommendationStore {
	return RecommendationStore{db: db}
}

// Create saves the recommendation and its items in one transaction, so
// a failed run never leaves a header without its picks. A run with
// zero picks still gets its header row.
func (s RecommendationStore) Create(ctx context.Context, rec recommend.Recommendation) (recommend.Recommendation, error) {
	recID, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (int64, error) {
		model := RecommendationModel{UserID: rec.UserID(), CreatedAt: rec.CreatedAt()}
		if err := tx.Create(&model).Error; err != nil {
			return 0, fmt.Errorf("create recommendation: %w", err)
		}
		if len(rec.Items()) == 0 {
			return model.ID, nil
		}
		items := make([]RecommendationItemModel, len(rec.Items()))
		for i, item := range rec.Items() {
			items[i] = RecommendationItemModel{
				RecommendationID: model.ID,
				BookID:           item.Book().ID(),
				Reason:           item.Reason(),
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return 0, fmt.Errorf("create recommendation items: %w", err)
		}
		return model.ID, nil
	})
	if err != nil {
		return recommend.Recommendation{}, err
	}
	return s.ByID(ctx, recID)
}

// ByID loads one recommendation with its items and books.
func (s RecommendationStore) ByID(ctx context.Context, id int64) (recommend.Recommendation, error) {
	var model RecommendationModel
	err := s.db.Session(ctx).
		Preload("Items.Book.Category").
		First(&model, id).Error
	if notFound(err) {
		return recommend.Recommendation{}, database.ErrNotFound
	}
	if err != nil {
		return recommend.Recommendation{}, fmt.Errorf("recommendation by id: %w", err)
	}
	return s.mapper.ToDomain(model), nil
}

// ForUser lists a user's recommendations newest first.
func (s RecommendationStore) ForUser(ctx context.Context, userID int64, offset, limit int) ([]recommend.Recommendation, int64, error) {
	filtered := func() *gorm.DB {
		return s.db.Session(ctx).Model(&RecommendationModel{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recommendations: %w", err)
	}

	var models []RecommendationModel
	err := filtered().
		Preload("Items.Book.Category").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("recommendations for user: %w", err)
	}

	recs := make([]recommend.Recommendation, len(models))
	for i, m := range models {
		recs[i] = s.mapper.ToDomain(m)
	}
	return recs, total, nil
}

var _ recommend.RecommendationStore = RecommendationStore{}
