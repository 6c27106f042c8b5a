// Package embedder wraps a provider.Embedder with the text hygiene and
// failure semantics the recommendation pipeline expects: inputs are
// sanitized and capped, and failures degrade to empty vectors instead
// of errors so one bad call never sinks a whole request.
package embedder

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/infrastructure/provider"
)

// maxBatchSplitDepth bounds the bisection retries of a failing batch.
// At the floor each text gets an empty vector.
const maxBatchSplitDepth = 3

var controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// Sanitize strips control characters, collapses whitespace and caps
// the text at maxChars runes.
func Sanitize(text string, maxChars int) string {
	text = controlCharPattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	runes := []rune(text)
	if maxChars > 0 && len(runes) > maxChars {
		runes = runes[:maxChars]
	}
	return string(runes)
}

// Service embeds texts and maintains stored book embeddings.
type Service struct {
	embedder   provider.Embedder
	embeddings recommend.EmbeddingStore
	model      string
	maxChars   int
	logger     *slog.Logger
}

// NewService creates an embedding service. model is recorded on stored
// embeddings; maxChars caps every text sent upstream.
func NewService(embedder provider.Embedder, embeddings recommend.EmbeddingStore, model string, maxChars int, logger *slog.Logger) *Service {
	return &Service{
		embedder:   embedder,
		embeddings: embeddings,
		model:      model,
		maxChars:   maxChars,
		logger:     logger,
	}
}

// Model returns the model name recorded on stored embeddings.
func (s *Service) Model() string { return s.model }

// EmbedText embeds one text. An empty vector signals failure; the
// caller decides whether that is fatal.
func (s *Service) EmbedText(ctx context.Context, text string) []float64 {
	clean := Sanitize(text, s.maxChars)
	if clean == "" {
		return nil
	}
	resp, err := s.embedder.Embed(ctx, provider.NewEmbeddingRequest([]string{clean}))
	if err != nil {
		s.logger.WarnContext(ctx, "embedding failed", "error", err)
		return nil
	}
	vectors := resp.Embeddings()
	if len(vectors) == 0 {
		return nil
	}
	return vectors[0]
}

// EmbedBatch embeds texts in one call, bisecting on failure so a
// single poison text only takes down its half. The result always has
// one entry per input; failed entries are empty.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) [][]float64 {
	clean := make([]string, len(texts))
	for i, t := range texts {
		clean[i] = Sanitize(t, s.maxChars)
	}
	return s.embedBatch(ctx, clean, 0)
}

func (s *Service) embedBatch(ctx context.Context, texts []string, depth int) [][]float64 {
	if len(texts) == 0 {
		return nil
	}
	// Attempts happen only above the floor, so a batch that always
	// fails costs at most 1+2+4 calls across the three levels.
	if depth >= maxBatchSplitDepth {
		return make([][]float64, len(texts))
	}
	resp, err := s.embedder.Embed(ctx, provider.NewEmbeddingRequest(texts))
	if err == nil {
		vectors := resp.Embeddings()
		if len(vectors) == len(texts) {
			return vectors
		}
		s.logger.WarnContext(ctx, "embedding count mismatch", "want", len(texts), "got", len(vectors))
	} else {
		s.logger.WarnContext(ctx, "batch embedding failed", "size", len(texts), "depth", depth, "error", err)
	}

	if len(texts) == 1 {
		return make([][]float64, 1)
	}
	mid := len(texts) / 2
	left := s.embedBatch(ctx, texts[:mid], depth+1)
	right := s.embedBatch(ctx, texts[mid:], depth+1)
	return append(left, right...)
}

// EnsureBookEmbedding returns a usable embedding for the book,
// computing and persisting one when none is stored. A zero vector and
// norm mean the embedder is unavailable; the book is skipped rather
// than failing the request.
func (s *Service) EnsureBookEmbedding(ctx context.Context, book catalog.Book) ([]float64, float64, error) {
	stored, ok, err := s.embeddings.ForBook(ctx, book.ID())
	if err != nil {
		return nil, 0, err
	}
	if ok && stored.Usable() {
		return stored.Vector(), stored.Norm(), nil
	}

	vec := s.EmbedText(ctx, recommend.BuildBookDocument(book))
	if len(vec) == 0 {
		return nil, 0, nil
	}
	embedding := recommend.NewBookEmbedding(book.ID(), vec, s.model)
	if err := s.embeddings.Save(ctx, embedding); err != nil {
		return nil, 0, err
	}
	return embedding.Vector(), embedding.Norm(), nil
}
