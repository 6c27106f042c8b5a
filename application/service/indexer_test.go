package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/infrastructure/embedder"
)

func indexerCatalog(n int) []catalog.Book {
	books := make([]catalog.Book, 0, n)
	for i := 1; i <= n; i++ {
		books = append(books, novelBook(int64(i), fmt.Sprintf("책 %d", i)))
	}
	return books
}

func newTestIndexer(books []catalog.Book, emb *stubVectorEmbedder, store *memEmbeddingStore) *Indexer {
	logger := testLogger()
	embedSvc := embedder.NewService(emb, store, "text-embedding-004", 2500, logger)
	return NewIndexer(&stubBookStore{books: books}, store, embedSvc, logger)
}

func TestIndexerRun_EmbedsWholeCatalog(t *testing.T) {
	store := newMemEmbeddingStore()
	ix := newTestIndexer(indexerCatalog(10), &stubVectorEmbedder{vector: []float64{1, 2}}, store)

	result, err := ix.Run(context.Background(), IndexOptions{BatchSize: 4})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Processed)
	assert.Equal(t, 10, result.Embedded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, store.byBook, 10)
	assert.Equal(t, "text-embedding-004", store.byBook[1].Model())
}

func TestIndexerRun_SkipsUsableEmbeddings(t *testing.T) {
	store := newMemEmbeddingStore()
	store.byBook[1] = recommend.NewBookEmbedding(1, []float64{3, 4}, "old")
	store.byBook[2] = recommend.NewBookEmbedding(2, []float64{3, 4}, "old")
	ix := newTestIndexer(indexerCatalog(5), &stubVectorEmbedder{vector: []float64{1, 2}}, store)

	result, err := ix.Run(context.Background(), IndexOptions{BatchSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 3, result.Embedded)
	// Skipped books keep their stored vectors.
	assert.Equal(t, "old", store.byBook[1].Model())
}

func TestIndexerRun_ForceRecomputes(t *testing.T) {
	store := newMemEmbeddingStore()
	store.byBook[1] = recommend.NewBookEmbedding(1, []float64{3, 4}, "old")
	ix := newTestIndexer(indexerCatalog(3), &stubVectorEmbedder{vector: []float64{1, 2}}, store)

	result, err := ix.Run(context.Background(), IndexOptions{BatchSize: 3, Force: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Embedded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, "text-embedding-004", store.byBook[1].Model())
}

func TestIndexerRun_LimitCapsWork(t *testing.T) {
	store := newMemEmbeddingStore()
	ix := newTestIndexer(indexerCatalog(10), &stubVectorEmbedder{vector: []float64{1, 2}}, store)

	result, err := ix.Run(context.Background(), IndexOptions{BatchSize: 4, Limit: 6})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Processed)
	assert.Equal(t, 6, result.Embedded)
}

func TestIndexerRun_EmbedderDownCountsFailures(t *testing.T) {
	store := newMemEmbeddingStore()
	ix := newTestIndexer(indexerCatalog(4), &stubVectorEmbedder{err: errors.New("down")}, store)

	result, err := ix.Run(context.Background(), IndexOptions{BatchSize: 4})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Failed)
	assert.Equal(t, 0, result.Embedded)
	assert.Empty(t, store.byBook)
}

func TestIndexerRun_EmptyCatalog(t *testing.T) {
	store := newMemEmbeddingStore()
	ix := newTestIndexer(nil, &stubVectorEmbedder{vector: []float64{1}}, store)

	result, err := ix.Run(context.Background(), IndexOptions{})
	require.NoError(t, err)
	assert.Equal(t, IndexResult{}, result)
}
