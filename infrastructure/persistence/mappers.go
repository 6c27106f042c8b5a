package persistence

import (
	"encoding/json"

	"github.com/bookdam/bookdam/domain/account"
	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/domain/recommend"
)

// UserMapper maps between account.User and UserModel.
type UserMapper struct{}

// ToDomain converts a UserModel to a domain User.
func (UserMapper) ToDomain(m UserModel) account.User {
	return account.ReconstructUser(m.ID, m.Username, m.Email, m.PasswordHash, m.CreatedAt)
}

// ToModel converts a domain User to a UserModel.
func (UserMapper) ToModel(u account.User) UserModel {
	return UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

// CategoryMapper maps between catalog.Category and CategoryModel.
type CategoryMapper struct{}

// ToDomain converts a CategoryModel to a domain Category.
func (CategoryMapper) ToDomain(m CategoryModel) catalog.Category {
	return catalog.ReconstructCategory(m.ID, m.Name)
}

// ToModel converts a domain Category to a CategoryModel.
func (CategoryMapper) ToModel(c catalog.Category) CategoryModel {
	return CategoryModel{ID: c.ID(), Name: c.Name()}
}

// BookMapper maps between catalog.Book and BookModel.
type BookMapper struct{}

// ToDomain converts a BookModel to a domain Book. The category must be
// preloaded.
func (BookMapper) ToDomain(m BookModel) catalog.Book {
	return catalog.ReconstructBook(m.ID, catalog.BookParams{
		Title:       m.Title,
		Author:      m.Author,
		Publisher:   m.Publisher,
		ISBN13:      m.ISBN13,
		Cover:       m.Cover,
		Description: m.Description,
		ReviewRank:  m.ReviewRank,
		PubDate:     m.PubDate,
		Category:    CategoryMapper{}.ToDomain(m.Category),
	}, m.CreatedAt)
}

// ToModel converts a domain Book to a BookModel.
func (BookMapper) ToModel(b catalog.Book) BookModel {
	return BookModel{
		ID:          b.ID(),
		Title:       b.Title(),
		Author:      b.Author(),
		Publisher:   b.Publisher(),
		ISBN13:      b.ISBN13(),
		Cover:       b.Cover(),
		Description: b.Description(),
		ReviewRank:  b.ReviewRank(),
		PubDate:     b.PubDate(),
		CategoryID:  b.Category().ID(),
		CreatedAt:   b.CreatedAt(),
	}
}

// CommentMapper maps between interaction.Comment and CommentModel.
type CommentMapper struct{}

// ToDomain converts a CommentModel to a domain Comment.
func (CommentMapper) ToDomain(m CommentModel) interaction.Comment {
	return interaction.ReconstructComment(m.ID, m.UserID, m.BookID, m.Content, m.CreatedAt)
}

// ToModel converts a domain Comment to a CommentModel.
func (CommentMapper) ToModel(c interaction.Comment) CommentModel {
	return CommentModel{
		ID:        c.ID(),
		UserID:    c.UserID(),
		BookID:    c.BookID(),
		Content:   c.Content(),
		CreatedAt: c.CreatedAt(),
	}
}

// BookmarkMapper maps between interaction.Bookmark and BookmarkModel.
type BookmarkMapper struct{}

// ToDomain converts a BookmarkModel to a domain Bookmark.
func (BookmarkMapper) ToDomain(m BookmarkModel) interaction.Bookmark {
	return interaction.ReconstructBookmark(m.ID, m.UserID, m.BookID, m.CreatedAt)
}

// ToModel converts a domain Bookmark to a BookmarkModel.
func (BookmarkMapper) ToModel(b interaction.Bookmark) BookmarkModel {
	return BookmarkModel{
		ID:        b.ID(),
		UserID:    b.UserID(),
		BookID:    b.BookID(),
		CreatedAt: b.BookmarkedAt(),
	}
}

// EmbeddingMapper maps between recommend.BookEmbedding and
// BookEmbeddingModel. Vectors are stored as JSON arrays.
type EmbeddingMapper struct{}

// ToDomain converts a BookEmbeddingModel to a domain BookEmbedding.
// A corrupt vector column maps to an unusable embedding rather than
// an error; the pipeline recomputes those lazily.
func (EmbeddingMapper) ToDomain(m BookEmbeddingModel) recommend.BookEmbedding {
	var vector []float64
	if m.Vector != "" {
		_ = json.Unmarshal([]byte(m.Vector), &vector)
	}
	return recommend.ReconstructBookEmbedding(m.BookID, vector, m.Norm, m.Model, m.UpdatedAt)
}

// ToModel converts a domain BookEmbedding to a BookEmbeddingModel.
func (EmbeddingMapper) ToModel(e recommend.BookEmbedding) (BookEmbeddingModel, error) {
	vector, err := json.Marshal(e.Vector())
	if err != nil {
		return BookEmbeddingModel{}, err
	}
	return BookEmbeddingModel{
		BookID:    e.BookID(),
		Vector:    string(vector),
		Norm:      e.Norm(),
		Model:     e.Model(),
		UpdatedAt: e.UpdatedAt(),
	}, nil
}

// RecommendationMapper maps between recommend.Recommendation and
// RecommendationModel.
type RecommendationMapper struct{}

// ToDomain converts a RecommendationModel to a domain Recommendation.
// Items and their books must be preloaded.
func (RecommendationMapper) ToDomain(m RecommendationModel) recommend.Recommendation {
	items := make([]recommend.Item, len(m.Items))
	for i, item := range m.Items {
		items[i] = recommend.NewItem(BookMapper{}.ToDomain(item.Book), item.Reason)
	}
	return recommend.ReconstructRecommendation(m.ID, m.UserID, items, m.CreatedAt)
}
