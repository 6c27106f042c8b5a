package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/interaction"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/infrastructure/embedder"
	"github.com/bookdam/bookdam/infrastructure/provider"
	"github.com/bookdam/bookdam/internal/log"
)

var testTime = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return log.New("ERROR", log.FormatJSON)
}

// stubGenerator answers intent prompts with intentJSON and reason
// prompts with reason. A non-nil err fails every call.
type stubGenerator struct {
	intentJSON string
	reason     string
	err        error
	calls      int
}

func (g *stubGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	g.calls++
	if g.err != nil {
		return provider.ChatCompletionResponse{}, g.err
	}
	content := g.reason
	if req.ForceJSON() {
		content = g.intentJSON
	}
	return provider.NewChatCompletionResponse(content, "stop", provider.Usage{}), nil
}

// stubVectorEmbedder returns the same vector for every input text.
type stubVectorEmbedder struct {
	vector []float64
	err    error
}

func (e *stubVectorEmbedder) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	if e.err != nil {
		return provider.EmbeddingResponse{}, e.err
	}
	out := make([][]float64, len(req.Texts()))
	for i := range out {
		out[i] = append([]float64(nil), e.vector...)
	}
	return provider.NewEmbeddingResponse(out, provider.Usage{}), nil
}

type stubBookStore struct {
	catalog.BookStore
	books []catalog.Book
}

func (s *stubBookStore) Candidates(context.Context) ([]catalog.Book, error) {
	return append([]catalog.Book(nil), s.books...), nil
}

func (s *stubBookStore) All(_ context.Context, afterID int64, limit int) ([]catalog.Book, error) {
	var page []catalog.Book
	for _, b := range s.books {
		if b.ID() > afterID {
			page = append(page, b)
		}
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

type fullBookmarkStub struct {
	ids map[int64]struct{}
}

func (s *fullBookmarkStub) Add(context.Context, interaction.Bookmark) error { return nil }
func (s *fullBookmarkStub) Remove(context.Context, int64, int64) error      { return nil }
func (s *fullBookmarkStub) Exists(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (s *fullBookmarkStub) ForUser(context.Context, int64, int, int) ([]interaction.Bookmark, int64, error) {
	return nil, 0, nil
}

func (s *fullBookmarkStub) BookIDs(context.Context, int64) (map[int64]struct{}, error) {
	if s.ids == nil {
		return map[int64]struct{}{}, nil
	}
	return s.ids, nil
}

// memEmbeddingStore is safe for the concurrent saves the indexer does.
type memEmbeddingStore struct {
	mu     sync.Mutex
	byBook map[int64]recommend.BookEmbedding
	saved  int
}

func newMemEmbeddingStore() *memEmbeddingStore {
	return &memEmbeddingStore{byBook: map[int64]recommend.BookEmbedding{}}
}

func (s *memEmbeddingStore) ForBook(_ context.Context, bookID int64) (recommend.BookEmbedding, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byBook[bookID]
	return e, ok, nil
}

func (s *memEmbeddingStore) ForBooks(_ context.Context, ids []int64) (map[int64]recommend.BookEmbedding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]recommend.BookEmbedding{}
	for _, id := range ids {
		if e, ok := s.byBook[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (s *memEmbeddingStore) Save(_ context.Context, e recommend.BookEmbedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byBook[e.BookID()] = e
	s.saved++
	return nil
}

func (s *memEmbeddingStore) MissingBookIDs(context.Context, int) ([]int64, error) {
	return nil, nil
}

type memRecommendationStore struct {
	recs   []recommend.Recommendation
	nextID int64
	err    error
}

func (s *memRecommendationStore) Create(_ context.Context, rec recommend.Recommendation) (recommend.Recommendation, error) {
	if s.err != nil {
		return recommend.Recommendation{}, s.err
	}
	s.nextID++
	saved := recommend.ReconstructRecommendation(s.nextID, rec.UserID(), rec.Items(), rec.CreatedAt())
	s.recs = append(s.recs, saved)
	return saved, nil
}

func (s *memRecommendationStore) ByID(_ context.Context, id int64) (recommend.Recommendation, error) {
	for _, r := range s.recs {
		if r.ID() == id {
			return r, nil
		}
	}
	return recommend.Recommendation{}, errNotFoundStub
}

func (s *memRecommendationStore) ForUser(_ context.Context, userID int64, offset, limit int) ([]recommend.Recommendation, int64, error) {
	var mine []recommend.Recommendation
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].UserID() == userID {
			mine = append(mine, s.recs[i])
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	mine = mine[offset:]
	if limit > 0 && len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, total, nil
}

var errNotFoundStub = errors.New("not found")

func novelBook(id int64, title string) catalog.Book {
	rank := 8.0
	return catalog.ReconstructBook(id, catalog.BookParams{
		Title:       title,
		Author:      "작가",
		Publisher:   "출판사",
		ISBN13:      fmt.Sprintf("97889%08d", id),
		Description: "따뜻한 이야기",
		ReviewRank:  &rank,
		Category:    catalog.ReconstructCategory(1, "소설"),
	}, testTime)
}

func newTestRecommender(t *testing.T, books []catalog.Book, gen provider.TextGenerator, emb provider.Embedder, store *memEmbeddingStore, recs *memRecommendationStore) *Recommender {
	t.Helper()
	logger := testLogger()
	embedSvc := embedder.NewService(emb, store, "text-embedding-004", 2500, logger)
	return NewRecommender(
		&stubBookStore{books: books},
		&fullBookmarkStub{},
		store,
		recs,
		gen,
		embedSvc,
		10,
		logger,
	)
}

func TestRecommend_HappyPath(t *testing.T) {
	books := []catalog.Book{
		novelBook(1, "빛의 호위"),
		novelBook(2, "밤의 여행자들"),
		novelBook(3, "쇼코의 미소"),
		novelBook(4, "아몬드"),
	}
	store := newMemEmbeddingStore()
	for _, b := range books {
		store.byBook[b.ID()] = recommend.NewBookEmbedding(b.ID(), []float64{1, 0}, "m")
	}
	gen := &stubGenerator{
		intentJSON: `{"intent":"위로가 되는 소설","core_topics":["위로","소설"],"mood":"따뜻한","request_type":"recommendation","avoid":[],"notes":""}`,
		reason:     strings.Repeat("이 책은 따뜻한 위로를 건네는 이야기입니다. ", 3),
	}
	recs := &memRecommendationStore{}
	r := newTestRecommender(t, books, gen, &stubVectorEmbedder{vector: []float64{1, 0}}, store, recs)

	rec, err := r.Recommend(context.Background(), 7, recommend.Request{Prompt: "따뜻한 위로가 되는 소설 추천해줘"})
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.UserID())
	require.Len(t, rec.Items(), 3)
	for _, item := range rec.Items() {
		assert.NotEmpty(t, item.Reason())
		assert.NotContains(t, item.Reason(), "```")
	}
	require.Len(t, recs.recs, 1)
}

func TestRecommend_EmptyPrompt(t *testing.T) {
	r := newTestRecommender(t, nil, &stubGenerator{}, &stubVectorEmbedder{}, newMemEmbeddingStore(), &memRecommendationStore{})

	_, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "   "})
	assert.ErrorIs(t, err, recommend.ErrEmptyPrompt)
}

func TestRecommend_EmptyCatalogPersistsZeroItems(t *testing.T) {
	// Nothing to pick from is still a valid run: the recommendation
	// is persisted and returned with zero items.
	recs := &memRecommendationStore{}
	r := newTestRecommender(t, nil, &stubGenerator{}, &stubVectorEmbedder{}, newMemEmbeddingStore(), recs)

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "소설 추천해줘"})
	require.NoError(t, err)
	assert.Empty(t, rec.Items())
	require.Len(t, recs.recs, 1)
	assert.Equal(t, int64(1), recs.recs[0].UserID())
}

func TestRecommend_GeneratorDownUsesPerWordKeywords(t *testing.T) {
	// With no model output the topics come from per-word keyword
	// extraction, not from a prefix of the raw prompt, so the book
	// matching one of those words wins.
	books := []catalog.Book{
		novelBook(1, "회사 체질이 아니라서요"),
		novelBook(2, "정원의 식물들"),
	}
	gen := &stubGenerator{err: errors.New("model unavailable")}
	recs := &memRecommendationStore{}
	r := newTestRecommender(t, books, gen, &stubVectorEmbedder{err: errors.New("down")}, newMemEmbeddingStore(), recs)

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "나 요즘 회사 다니기 너무 힘들어"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.Items())
	assert.Equal(t, "회사 체질이 아니라서요", rec.Items()[0].Book().Title())
}

func TestRecommend_GeneratorDownStillRecommends(t *testing.T) {
	books := []catalog.Book{novelBook(1, "파견자들"), novelBook(2, "지구 끝의 온실")}
	gen := &stubGenerator{err: errors.New("model unavailable")}
	recs := &memRecommendationStore{}
	r := newTestRecommender(t, books, gen, &stubVectorEmbedder{err: errors.New("down")}, newMemEmbeddingStore(), recs)

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "소설 추천해줘"})
	require.NoError(t, err)
	require.Len(t, rec.Items(), 2)
	// Reasons come from the deterministic template.
	for _, item := range rec.Items() {
		assert.Contains(t, item.Reason(), item.Book().Title())
	}
}

func TestRecommend_EmbedderDownFallsBackToKeywords(t *testing.T) {
	books := []catalog.Book{
		novelBook(1, "여행의 이유"),
		novelBook(2, "소설 쓰는 밤"),
	}
	gen := &stubGenerator{
		intentJSON: `{"intent":"","core_topics":["여행"],"mood":"","request_type":"","avoid":[],"notes":""}`,
		reason:     strings.Repeat("여행의 의미를 섬세하게 풀어낸 매력적인 산문입니다. ", 2),
	}
	r := newTestRecommender(t, books, gen, &stubVectorEmbedder{err: errors.New("down")}, newMemEmbeddingStore(), &memRecommendationStore{})

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "여행 관련 책 추천해줘"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.Items())
	// Keyword fallback puts the title hit first.
	assert.Equal(t, "여행의 이유", rec.Items()[0].Book().Title())
}

func TestRecommend_BookmarkedBooksExcluded(t *testing.T) {
	books := []catalog.Book{novelBook(1, "이미 읽은 책"), novelBook(2, "새로운 책")}
	store := newMemEmbeddingStore()
	for _, b := range books {
		store.byBook[b.ID()] = recommend.NewBookEmbedding(b.ID(), []float64{1, 0}, "m")
	}
	gen := &stubGenerator{
		intentJSON: `{"intent":"","core_topics":["소설"],"mood":"","request_type":"","avoid":[],"notes":""}`,
		reason:     strings.Repeat("섬세한 문장으로 일상의 결을 담아낸 소설입니다. ", 2),
	}
	recs := &memRecommendationStore{}
	logger := testLogger()
	embedSvc := embedder.NewService(&stubVectorEmbedder{vector: []float64{1, 0}}, store, "m", 2500, logger)
	r := NewRecommender(
		&stubBookStore{books: books},
		&fullBookmarkStub{ids: map[int64]struct{}{1: {}}},
		store, recs, gen, embedSvc, 10, logger,
	)

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "소설 추천해줘"})
	require.NoError(t, err)
	for _, item := range rec.Items() {
		assert.NotEqual(t, int64(1), item.Book().ID())
	}
}

func TestRecommend_LazyFillPersistsMissingEmbeddings(t *testing.T) {
	books := []catalog.Book{novelBook(1, "채식주의자"), novelBook(2, "소년이 온다")}
	store := newMemEmbeddingStore() // nothing stored: every candidate needs a fill
	gen := &stubGenerator{
		intentJSON: `{"intent":"","core_topics":["소설"],"mood":"","request_type":"","avoid":[],"notes":""}`,
		reason:     strings.Repeat("인간의 존엄을 정면으로 응시하는 작품입니다. ", 2),
	}
	r := newTestRecommender(t, books, gen, &stubVectorEmbedder{vector: []float64{1, 0}}, store, &memRecommendationStore{})

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "소설 추천해줘"})
	require.NoError(t, err)
	require.Len(t, rec.Items(), 2)
	// Both candidates were embedded on demand and persisted.
	assert.Equal(t, 2, store.saved)
}

func TestRecommend_ShortReasonUsesFallback(t *testing.T) {
	books := []catalog.Book{novelBook(1, "달러구트 꿈 백화점")}
	store := newMemEmbeddingStore()
	store.byBook[1] = recommend.NewBookEmbedding(1, []float64{1, 0}, "m")
	gen := &stubGenerator{
		intentJSON: `{"intent":"","core_topics":["소설"],"mood":"","request_type":"","avoid":[],"notes":""}`,
		reason:     "좋아요",
	}
	r := newTestRecommender(t, books, gen, &stubVectorEmbedder{vector: []float64{1, 0}}, store, &memRecommendationStore{})

	rec, err := r.Recommend(context.Background(), 1, recommend.Request{Prompt: "소설 추천해줘"})
	require.NoError(t, err)
	require.Len(t, rec.Items(), 1)
	assert.Contains(t, rec.Items()[0].Reason(), "달러구트 꿈 백화점")
}

func TestHistoryAndGet(t *testing.T) {
	recs := &memRecommendationStore{}
	r := newTestRecommender(t, nil, &stubGenerator{}, &stubVectorEmbedder{}, newMemEmbeddingStore(), recs)

	items := []recommend.Item{recommend.NewItem(novelBook(1, "책"), "이유")}
	first, err := recs.Create(context.Background(), recommend.NewRecommendation(5, items))
	require.NoError(t, err)
	_, err = recs.Create(context.Background(), recommend.NewRecommendation(5, items))
	require.NoError(t, err)

	page, total, err := r.History(context.Background(), 5, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)

	got, err := r.Get(context.Background(), 5, first.ID())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())

	_, err = r.Get(context.Background(), 9, first.ID())
	assert.ErrorIs(t, err, ErrForbidden)
}
