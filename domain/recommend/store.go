package recommend

import "context"

// EmbeddingStore persists book embeddings.
type EmbeddingStore interface {
	// ForBook returns the stored embedding for a book, ok=false when
	// none exists yet.
	ForBook(ctx context.Context, bookID int64) (BookEmbedding, bool, error)
	// ForBooks bulk-loads stored embeddings keyed by book ID.
	ForBooks(ctx context.Context, bookIDs []int64) (map[int64]BookEmbedding, error)
	// Save upserts the embedding for its book.
	Save(ctx context.Context, embedding BookEmbedding) error
	// MissingBookIDs returns IDs of books without a usable embedding,
	// in ID order, up to limit.
	MissingBookIDs(ctx context.Context, limit int) ([]int64, error)
}

// RecommendationStore persists pipeline runs.
type RecommendationStore interface {
	// Create saves the recommendation and its items atomically and
	// returns it with IDs assigned.
	Create(ctx context.Context, rec Recommendation) (Recommendation, error)
	// ByID loads one recommendation with its items and books.
	ByID(ctx context.Context, id int64) (Recommendation, error)
	// ForUser lists a user's recommendations newest first.
	ForUser(ctx context.Context, userID int64, offset, limit int) ([]Recommendation, int64, error)
}
