package recommend

import (
	"math"
	"sort"

	"github.com/bookdam/bookdam/domain/catalog"
)

const (
	// similarityBasePool bounds how many quality-sorted candidates are
	// scored against the query embedding.
	similarityBasePool = 250
	// keywordBasePool bounds the fallback ranker's input the same way.
	keywordBasePool = 300
	// finalPool is the ranked shortlist size either ranker returns.
	finalPool = 20
	// similarityFloor drops books whose score signals a degenerate
	// vector rather than genuine dissimilarity.
	similarityFloor = -0.5
)

// VectorNorm returns the Euclidean norm of v.
func VectorNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine of the angle between a and b,
// or -1 when either vector is empty, mismatched in length or zero.
func CosineSimilarity(a, b []float64) float64 {
	return CosineSimilarityWithNorms(a, b, VectorNorm(a), VectorNorm(b))
}

// CosineSimilarityWithNorms is CosineSimilarity with precomputed norms,
// for scoring many stored vectors against one query. A zero norm is
// recomputed from the vector.
func CosineSimilarityWithNorms(a, b []float64, normA, normB float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return -1.0
	}
	if normA == 0 {
		normA = VectorNorm(a)
	}
	if normB == 0 {
		normB = VectorNorm(b)
	}
	if normA == 0 || normB == 0 {
		return -1.0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

// EmbeddingSource resolves book embeddings during similarity ranking.
// Stored returns a persisted vector and its norm; Fill computes and
// persists one on demand and may return an empty vector when the
// upstream embedder is unavailable.
type EmbeddingSource struct {
	Stored func(book catalog.Book) (vec []float64, norm float64, ok bool)
	Fill   func(book catalog.Book) (vec []float64, norm float64, err error)
}

type scoredBook struct {
	book  catalog.Book
	score float64
}

// RankBySimilarity scores the quality-sorted head of the candidate
// pool against the query embedding and returns the shortlist sorted by
// similarity. Books without a stored embedding are filled lazily up to
// lazyBudget calls; the rest are skipped for this request. An empty
// result means no candidate scored above the floor, and the caller
// should fall back to keyword ranking.
func RankBySimilarity(books []catalog.Book, query []float64, source EmbeddingSource, lazyBudget int) []catalog.Book {
	if len(query) == 0 {
		return nil
	}
	base := SortByQuality(books)
	if len(base) > similarityBasePool {
		base = base[:similarityBasePool]
	}

	scored := make([]scoredBook, 0, len(base))
	spent := 0
	for _, book := range base {
		vec, norm, ok := source.Stored(book)
		if !ok || len(vec) == 0 || norm == 0 {
			if spent >= lazyBudget {
				continue
			}
			var err error
			vec, norm, err = source.Fill(book)
			if err != nil {
				continue
			}
			spent++
		}
		sim := CosineSimilarityWithNorms(query, vec, 0, norm)
		if sim > similarityFloor {
			scored = append(scored, scoredBook{book: book, score: sim})
		}
	}
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if ra, rb := a.book.ReviewRankOrZero(), b.book.ReviewRankOrZero(); ra != rb {
			return ra > rb
		}
		return a.book.PubOrdinal() > b.book.PubOrdinal()
	})
	if len(scored) > finalPool {
		scored = scored[:finalPool]
	}
	out := make([]catalog.Book, len(scored))
	for i, s := range scored {
		out[i] = s.book
	}
	return out
}

// SortByQuality orders books by customer review rank then publication
// date, both descending, without mutating the input.
func SortByQuality(books []catalog.Book) []catalog.Book {
	out := make([]catalog.Book, len(books))
	copy(out, books)
	sort.SliceStable(out, func(i, j int) bool {
		if ra, rb := out[i].ReviewRankOrZero(), out[j].ReviewRankOrZero(); ra != rb {
			return ra > rb
		}
		return out[i].PubOrdinal() > out[j].PubOrdinal()
	})
	return out
}
