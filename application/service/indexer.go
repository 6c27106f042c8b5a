package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bookdam/bookdam/domain/catalog"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/infrastructure/embedder"
)

const (
	defaultIndexBatch       = 64
	defaultIndexConcurrency = 2
)

// IndexOptions controls a batch embedding run.
type IndexOptions struct {
	// BatchSize is how many books go into one embedding call.
	BatchSize int
	// Force recomputes embeddings that are already stored and usable.
	Force bool
	// Limit caps how many books are processed; zero means all.
	Limit int
	// Concurrency is how many batches run in flight at once.
	Concurrency int
}

func (o IndexOptions) withDefaults() IndexOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = defaultIndexBatch
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultIndexConcurrency
	}
	return o
}

// IndexResult reports what a batch embedding run did.
type IndexResult struct {
	Processed int
	Embedded  int
	Skipped   int
	Failed    int
}

// Indexer walks the catalog and stores an embedding for every book, so
// recommendation requests rarely have to compute them on demand.
type Indexer struct {
	books      catalog.BookStore
	embeddings recommend.EmbeddingStore
	embedder   *embedder.Service
	logger     *slog.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(books catalog.BookStore, embeddings recommend.EmbeddingStore, embedSvc *embedder.Service, logger *slog.Logger) *Indexer {
	return &Indexer{
		books:      books,
		embeddings: embeddings,
		embedder:   embedSvc,
		logger:     logger,
	}
}

// Run embeds every book that needs it, in concurrent batches. Books
// with a usable stored embedding are skipped unless opts.Force is set.
// Embedding failures are counted, not fatal; only a store error stops
// the run.
func (ix *Indexer) Run(ctx context.Context, opts IndexOptions) (IndexResult, error) {
	opts = opts.withDefaults()

	var (
		mu     sync.Mutex
		result IndexResult
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	afterID := int64(0)
	remaining := opts.Limit
	for {
		pageSize := opts.BatchSize
		if opts.Limit > 0 && remaining < pageSize {
			pageSize = remaining
		}
		if opts.Limit > 0 && pageSize == 0 {
			break
		}
		page, err := ix.books.All(ctx, afterID, pageSize)
		if err != nil {
			return result, err
		}
		if len(page) == 0 {
			break
		}
		afterID = page[len(page)-1].ID()
		remaining -= len(page)

		batch, skipped, err := ix.selectBatch(ctx, page, opts.Force)
		if err != nil {
			return result, err
		}
		mu.Lock()
		result.Processed += len(page)
		result.Skipped += skipped
		mu.Unlock()
		if len(batch) == 0 {
			continue
		}

		group.Go(func() error {
			embedded, failed, err := ix.embedBatch(gctx, batch)
			mu.Lock()
			result.Embedded += embedded
			result.Failed += failed
			mu.Unlock()
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return result, err
	}
	ix.logger.InfoContext(ctx, "embedding run finished",
		"processed", result.Processed, "embedded", result.Embedded,
		"skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// selectBatch drops books whose stored embedding is already usable,
// unless force is set.
func (ix *Indexer) selectBatch(ctx context.Context, page []catalog.Book, force bool) ([]catalog.Book, int, error) {
	if force {
		return page, 0, nil
	}
	ids := make([]int64, len(page))
	for i, b := range page {
		ids[i] = b.ID()
	}
	stored, err := ix.embeddings.ForBooks(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	batch := make([]catalog.Book, 0, len(page))
	skipped := 0
	for _, b := range page {
		if e, ok := stored[b.ID()]; ok && e.Usable() {
			skipped++
			continue
		}
		batch = append(batch, b)
	}
	return batch, skipped, nil
}

func (ix *Indexer) embedBatch(ctx context.Context, batch []catalog.Book) (embedded, failed int, err error) {
	docs := make([]string, len(batch))
	for i, b := range batch {
		docs[i] = recommend.BuildBookDocument(b)
	}
	vectors := ix.embedder.EmbedBatch(ctx, docs)
	for i, vec := range vectors {
		if len(vec) == 0 {
			failed++
			continue
		}
		e := recommend.NewBookEmbedding(batch[i].ID(), vec, ix.embedder.Model())
		if err := ix.embeddings.Save(ctx, e); err != nil {
			return embedded, failed, err
		}
		embedded++
	}
	return embedded, failed, nil
}
