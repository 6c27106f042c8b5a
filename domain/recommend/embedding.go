package recommend

import "time"

// BookEmbedding is a book's stored document vector with its
// precomputed norm, keyed one-to-one by book.
type BookEmbedding struct {
	bookID    int64
	vector    []float64
	norm      float64
	model     string
	updatedAt time.Time
}

// NewBookEmbedding builds an embedding for a freshly computed vector.
// The norm is derived from the vector.
func NewBookEmbedding(bookID int64, vector []float64, model string) BookEmbedding {
	return BookEmbedding{
		bookID:    bookID,
		vector:    vector,
		norm:      VectorNorm(vector),
		model:     model,
		updatedAt: time.Now().UTC(),
	}
}

// ReconstructBookEmbedding rebuilds an embedding from storage.
func ReconstructBookEmbedding(bookID int64, vector []float64, norm float64, model string, updatedAt time.Time) BookEmbedding {
	return BookEmbedding{bookID: bookID, vector: vector, norm: norm, model: model, updatedAt: updatedAt}
}

func (e BookEmbedding) BookID() int64        { return e.bookID }
func (e BookEmbedding) Vector() []float64    { return e.vector }
func (e BookEmbedding) Norm() float64        { return e.norm }
func (e BookEmbedding) Model() string        { return e.model }
func (e BookEmbedding) UpdatedAt() time.Time { return e.updatedAt }

// Usable reports whether the stored vector can score a query without
// being recomputed.
func (e BookEmbedding) Usable() bool {
	return len(e.vector) > 0 && e.norm > 0
}
