package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/infrastructure/embedder"
	"github.com/bookdam/bookdam/infrastructure/provider"
	"github.com/bookdam/bookdam/internal/database"
)

// Recommender runs the recommendation pipeline: intent extraction,
// candidate filtering, similarity ranking with keyword fallback,
// reason generation and persistence. Every AI stage degrades rather
// than fails: a dead model still produces a recommendation, just a
// less personal one.
type Recommender struct {
	books      catalog.BookStore
	bookmarks  interaction.BookmarkStore
	embeddings recommend.EmbeddingStore
	recs       recommend.RecommendationStore
	generator  provider.TextGenerator
	embedder   *embedder.Service
	lazyLimit  int
	logger     *slog.Logger
}

// NewRecommender creates a Recommender. lazyLimit caps how many book
// embeddings may be computed on demand within one request.
func NewRecommender(
	books catalog.BookStore,
	bookmarks interaction.BookmarkStore,
	embeddings recommend.EmbeddingStore,
	recs recommend.RecommendationStore,
	generator provider.TextGenerator,
	embedSvc *embedder.Service,
	lazyLimit int,
	logger *slog.Logger,
) *Recommender {
	return &Recommender{
		books:      books,
		bookmarks:  bookmarks,
		embeddings: embeddings,
		recs:       recs,
		generator:  generator,
		embedder:   embedSvc,
		lazyLimit:  lazyLimit,
		logger:     logger,
	}
}

// Recommend runs the full pipeline for one request and persists the
// result.
func (r *Recommender) Recommend(ctx context.Context, userID int64, req recommend.Request) (recommend.Recommendation, error) {
	if err := req.Validate(); err != nil {
		return recommend.Recommendation{}, err
	}

	intent := r.extractIntent(ctx, req.Prompt)
	topics := intent.CoreTopics
	if len(topics) == 0 {
		topics = recommend.ExtractKeywords(req.Prompt)
	}
	mood := req.Mood
	if mood == "" {
		mood = intent.Mood
	}

	candidates, err := r.loadCandidates(ctx, userID, req.Prompt, topics)
	if err != nil {
		return recommend.Recommendation{}, err
	}

	// An empty pool still produces a persisted recommendation with
	// zero items; callers treat that as a valid outcome.
	var picks []catalog.Book
	if len(candidates) > 0 {
		picks = r.rank(ctx, candidates, req, intent, topics, mood)
		if len(picks) > 3 {
			picks = picks[:3]
		}
	}
	prefText := req.PreferenceText()
	items := make([]recommend.Item, 0, len(picks))
	for _, book := range picks {
		matched := recommend.MatchingTopics(book, topics, 5)
		items = append(items, recommend.NewItem(book, r.reasonFor(ctx, prefText, book, matched)))
	}

	saved, err := r.recs.Create(ctx, recommend.NewRecommendation(userID, items))
	if err != nil {
		return recommend.Recommendation{}, fmt.Errorf("persist recommendation: %w", err)
	}
	r.logger.InfoContext(ctx, "recommendation created",
		"user_id", userID, "recommendation_id", saved.ID(), "picks", len(saved.Items()))
	return saved, nil
}

// History returns a page of the user's past recommendations.
func (r *Recommender) History(ctx context.Context, userID int64, limit, offset int) ([]recommend.Recommendation, int64, error) {
	return r.recs.ForUser(ctx, userID, offset, limit)
}

// Get returns one recommendation the user owns.
func (r *Recommender) Get(ctx context.Context, userID, recID int64) (recommend.Recommendation, error) {
	rec, err := r.recs.ByID(ctx, recID)
	if errors.Is(err, database.ErrNotFound) {
		return recommend.Recommendation{}, ErrNotFound
	}
	if err != nil {
		return recommend.Recommendation{}, err
	}
	if rec.UserID() != userID {
		return recommend.Recommendation{}, ErrForbidden
	}
	return rec, nil
}

// extractIntent asks the model to structure the prompt. Any failure
// yields an empty intent, which sends the caller to the per-word
// keyword fallback.
func (r *Recommender) extractIntent(ctx context.Context, prompt string) recommend.Intent {
	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.UserMessage(recommend.BuildIntentPrompt(prompt)),
	}).WithForceJSON()

	resp, err := r.generator.ChatCompletion(ctx, req)
	if err != nil {
		r.logger.WarnContext(ctx, "intent extraction failed", "error", err)
		return recommend.ParseIntent("", prompt)
	}
	return recommend.ParseIntent(resp.Content(), prompt)
}

func (r *Recommender) loadCandidates(ctx context.Context, userID int64, prompt string, topics []string) ([]catalog.Book, error) {
	books, err := r.books.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	bookmarked, err := r.bookmarks.BookIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return recommend.FilterCandidates(books, prompt, topics, bookmarked), nil
}

// rank scores candidates by embedding similarity, falling back to
// keyword-hit ranking when the query embedding or every candidate
// vector is unavailable.
func (r *Recommender) rank(ctx context.Context, candidates []catalog.Book, req recommend.Request, intent recommend.Intent, topics []string, mood string) []catalog.Book {
	query := r.embedder.EmbedText(ctx, recommend.BuildEmbedQuery(req, intent, topics, mood))

	if len(query) > 0 {
		stored := r.prefetchEmbeddings(ctx, candidates)
		source := recommend.EmbeddingSource{
			Stored: func(book catalog.Book) ([]float64, float64, bool) {
				e, ok := stored[book.ID()]
				if !ok || !e.Usable() {
					return nil, 0, false
				}
				return e.Vector(), e.Norm(), true
			},
			Fill: func(book catalog.Book) ([]float64, float64, error) {
				return r.embedder.EnsureBookEmbedding(ctx, book)
			},
		}
		if ranked := recommend.RankBySimilarity(candidates, query, source, r.lazyLimit); len(ranked) > 0 {
			return ranked
		}
		r.logger.InfoContext(ctx, "similarity ranking empty, using keyword fallback")
	} else {
		r.logger.WarnContext(ctx, "query embedding unavailable, using keyword fallback")
	}

	return recommend.RankByKeywordScore(candidates, topics)
}

func (r *Recommender) prefetchEmbeddings(ctx context.Context, candidates []catalog.Book) map[int64]recommend.BookEmbedding {
	ids := make([]int64, len(candidates))
	for i, b := range candidates {
		ids[i] = b.ID()
	}
	stored, err := r.embeddings.ForBooks(ctx, ids)
	if err != nil {
		r.logger.WarnContext(ctx, "prefetch embeddings failed", "error", err)
		return map[int64]recommend.BookEmbedding{}
	}
	return stored
}

// reasonFor asks the model why this book fits, falling back to the
// deterministic template when the answer is missing or too short.
// matched carries the topics that actually occur in the book's text.
func (r *Recommender) reasonFor(ctx context.Context, prefText string, book catalog.Book, matched []string) string {
	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.UserMessage(recommend.BuildReasonPrompt(prefText, book, matched)),
	})

	resp, err := r.generator.ChatCompletion(ctx, req)
	if err != nil {
		r.logger.WarnContext(ctx, "reason generation failed", "book_id", book.ID(), "error", err)
		return recommend.FallbackReason(book)
	}
	reason, ok := recommend.CleanReason(resp.Content())
	if !ok {
		r.logger.WarnContext(ctx, "reason too short, using fallback", "book_id", book.ID())
		return recommend.FallbackReason(book)
	}
	return reason
}
