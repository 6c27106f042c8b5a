package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdam/bookdam"
	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/infrastructure/persistence"
	"github.com/bookdam/bookdam/infrastructure/provider"
	"github.com/bookdam/bookdam/internal/config"
	"github.com/bookdam/bookdam/internal/log"
)

// fakeProvider answers every chat and embedding call deterministically
// so the full pipeline runs without a real model.
type fakeProvider struct{}

func (fakeProvider) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	content := strings.Repeat("잔잔한 문장으로 계절의 감각을 붙잡는 소설입니다. ", 2)
	if req.ForceJSON() {
		content = `{"intent":"소설 추천","core_topics":["소설"],"mood":"잔잔한","request_type":"recommendation","avoid":[],"notes":""}`
	}
	return provider.NewChatCompletionResponse(content, "stop", provider.Usage{}), nil
}

func (fakeProvider) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	out := make([][]float64, len(req.Texts()))
	for i := range out {
		out[i] = []float64{1, 0}
	}
	return provider.NewEmbeddingResponse(out, provider.Usage{}), nil
}

func (fakeProvider) Close() error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *bookdam.Client) {
	t.Helper()

	client, err := bookdam.New(
		bookdam.WithDBURL("sqlite:///"+t.TempDir()+"/api_test.db"),
		bookdam.WithProvider(fakeProvider{}),
		bookdam.WithLogger(log.New("ERROR", log.FormatJSON)),
		bookdam.WithConfigOptions(config.WithJWTSecret("api-test-secret")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ts := httptest.NewServer(NewAPIServer(client).Router())
	t.Cleanup(ts.Close)
	return ts, client
}

func seedBooks(t *testing.T, client *bookdam.Client, n int) []catalog.Book {
	t.Helper()
	books := persistence.NewBookStore(client.Database())
	categories := persistence.NewCategoryStore(client.Database())

	category, err := categories.GetOrCreate(context.Background(), "소설")
	require.NoError(t, err)

	rank := 9.0
	pub := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	saved := make([]catalog.Book, 0, n)
	for i := 1; i <= n; i++ {
		book, err := books.Save(context.Background(), catalog.NewBook(catalog.BookParams{
			Title:       fmt.Sprintf("조용한 소설 %d", i),
			Author:      "김작가",
			Publisher:   "달빛출판사",
			ISBN13:      fmt.Sprintf("97911%08d", i),
			Description: "마음이 차분해지는 이야기",
			ReviewRank:  &rank,
			PubDate:     &pub,
			Category:    category,
		}))
		require.NoError(t, err)
		saved = append(saved, book)
	}
	return saved
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, raw
}

func signup(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "reading-is-life",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestAuthFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	token := signup(t, ts, "dokja")

	// Duplicate username conflicts.
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/signup", "", map[string]string{
		"username": "dokja", "email": "x@example.com", "password": "something-else",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login works and /me reflects the account.
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]string{
		"username": "dokja", "password": "reading-is-life",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "dokja", me.Username)

	// Anonymous /me is rejected.
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBooksAndInteractions(t *testing.T) {
	ts, client := newTestServer(t)
	books := seedBooks(t, client, 3)
	token := signup(t, ts, "dokja")
	bookURL := fmt.Sprintf("%s/api/v1/books/%d", ts.URL, books[0].ID())

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/books?q=조용한&field=title", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Books      []struct{ Title string }
		Pagination struct{ Total int64 }
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, int64(3), list.Pagination.Total)

	// Comment and bookmark, then check the detail reflects both.
	resp, _ = doJSON(t, http.MethodPost, bookURL+"/comments", token, map[string]string{"content": "띵작"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPut, bookURL+"/bookmark", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, bookURL, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Title        string `json:"title"`
		CommentCount int64  `json:"comment_count"`
		Bookmarked   bool   `json:"bookmarked"`
	}
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, books[0].Title(), detail.Title)
	assert.Equal(t, int64(1), detail.CommentCount)
	assert.True(t, detail.Bookmarked)

	// Anonymous detail still works, just without the bookmark flag.
	resp, raw = doJSON(t, http.MethodGet, bookURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.False(t, detail.Bookmarked)

	// Writing anonymously is rejected.
	resp, _ = doJSON(t, http.MethodPost, bookURL+"/comments", "", map[string]string{"content": "익명"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Missing book 404s.
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/books/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentOwnership(t *testing.T) {
	ts, client := newTestServer(t)
	books := seedBooks(t, client, 1)
	owner := signup(t, ts, "dokja")
	stranger := signup(t, ts, "reader2")
	bookURL := fmt.Sprintf("%s/api/v1/books/%d", ts.URL, books[0].ID())

	resp, raw := doJSON(t, http.MethodPost, bookURL+"/comments", owner, map[string]string{"content": "첫 감상"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &comment))
	commentURL := fmt.Sprintf("%s/api/v1/comments/%d", ts.URL, comment.ID)

	// Someone else cannot edit or delete it.
	resp, _ = doJSON(t, http.MethodPut, commentURL, stranger, map[string]string{"content": "수정"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, commentURL, stranger, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner can.
	resp, raw = doJSON(t, http.MethodPut, commentURL, owner, map[string]string{"content": "고친 감상"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "고친 감상", updated.Content)

	resp, _ = doJSON(t, http.MethodDelete, commentURL, owner, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRecommendationFlow(t *testing.T) {
	ts, client := newTestServer(t)
	seedBooks(t, client, 5)
	token := signup(t, ts, "dokja")
	recsURL := ts.URL + "/api/v1/recommendations"

	resp, raw := doJSON(t, http.MethodPost, recsURL, token, map[string]string{
		"prompt": "잔잔한 소설 추천해줘",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var rec struct {
		ID    int64 `json:"id"`
		Items []struct {
			Reason string `json:"reason"`
			Book   struct {
				Title string `json:"title"`
			} `json:"book"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &rec))
	require.Len(t, rec.Items, 3)
	for _, item := range rec.Items {
		assert.NotEmpty(t, item.Book.Title)
		assert.NotEmpty(t, item.Reason)
	}

	// History shows the run; fetching it by ID round-trips.
	resp, raw = doJSON(t, http.MethodGet, recsURL, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Recommendations []struct {
			ID int64 `json:"id"`
		} `json:"recommendations"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Equal(t, int64(1), history.Pagination.Total)
	assert.Equal(t, rec.ID, history.Recommendations[0].ID)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/%d", recsURL, rec.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Another user cannot read it.
	other := signup(t, ts, "reader2")
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/%d", recsURL, rec.ID), other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// An empty prompt is a bad request.
	resp, _ = doJSON(t, http.MethodPost, recsURL, token, map[string]string{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendation_NoCatalog(t *testing.T) {
	// An empty catalog still yields a persisted recommendation; it
	// just carries zero items.
	ts, _ := newTestServer(t)
	token := signup(t, ts, "dokja")
	recsURL := ts.URL + "/api/v1/recommendations"

	resp, raw := doJSON(t, http.MethodPost, recsURL, token, map[string]string{
		"prompt": "소설 추천해줘",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var rec struct {
		ID    int64             `json:"id"`
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.NotZero(t, rec.ID)
	assert.Empty(t, rec.Items)

	// The empty run shows up in history too.
	resp, raw = doJSON(t, http.MethodGet, recsURL, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(raw, &history))
	assert.Equal(t, int64(1), history.Pagination.Total)
}
