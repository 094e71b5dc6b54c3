package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/storage"
)

const (
	defaultChunkSize    = 300
	defaultChunkOverlap = 20

	// defaultThreshold matches chunks loosely enough that related text
	// surfaces while unrelated documents stay out.
	defaultThreshold = 0.60
)

// Store splits, persists and embeds documents, and answers semantic
// queries over them.
type Store struct {
	chunks       storage.ChunkRepository
	embedder     Embedder
	pool         *ants.Pool
	splitter     textsplitter.RecursiveCharacter
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for async embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithChunking overrides the splitter's chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(s *Store) error {
		if size > 0 {
			s.chunkSize = size
		}
		if overlap >= 0 {
			s.chunkOverlap = overlap
		}
		return nil
	}
}

// NewStore creates a document store over the chunk repository.
func NewStore(chunks storage.ChunkRepository, embedder Embedder, opts ...Option) (*Store, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		chunks:       chunks,
		embedder:     embedder,
		pool:         pool,
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		logger:       slog.Default().With("component", "docstore"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	s.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
	)

	return s, nil
}

// Release stops the embedding worker pool. Pending jobs finish first.
func (s *Store) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// ReleaseTimeout waits up to d for running embedding jobs before
// stopping the pool. Used by one-shot commands that must not exit with
// unembedded chunks.
func (s *Store) ReleaseTimeout(d time.Duration) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.ReleaseTimeout(d)
}

// SplitText splits raw text into overlapping chunks.
func (s *Store) SplitText(text string) ([]string, error) {
	return s.splitter.SplitText(text)
}

// Ingest splits a document into chunks, stores them, and schedules
// embedding on the worker pool. Returns the number of chunks created.
// Embedding failures are logged, not returned; unembedded chunks simply
// stay out of search results until re-ingested.
func (s *Store) Ingest(ctx context.Context, document, text string) (int, error) {
	if document == "" {
		return 0, ErrDocumentRequired
	}

	pieces, err := s.SplitText(text)
	if err != nil {
		return 0, err
	}
	if len(pieces) == 0 {
		return 0, nil
	}

	// Replace any previous version of the document.
	if err := s.chunks.DeleteDocument(ctx, document); err != nil {
		return 0, err
	}

	chunks := make([]*core.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &core.DocumentChunk{
			Document: document,
			Seq:      i,
			Text:     piece,
		}
	}

	added, err := s.chunks.AddChunks(ctx, chunks...)
	if err != nil {
		return 0, err
	}

	s.logger.Info("ingested document", "document", document, "chunks", len(added))

	ids := make([]core.ID, len(added))
	for i, chunk := range added {
		ids[i] = chunk.Id
	}

	s.pool.Submit(func() {
		if err := s.embedChunks(context.Background(), ids...); err != nil {
			s.logger.Error("error embedding document chunks",
				"document", document, "err", err)
		}
	})

	return len(added), nil
}

// embedChunks generates and stores embeddings for the given chunks.
func (s *Store) embedChunks(ctx context.Context, ids ...core.ID) error {
	chunks, err := s.chunks.GetChunks(ctx, ids...)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	s.logger.Debug("generating embeddings for chunks", "chunks", len(texts))
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(vectors))
	}

	for i := range vectors {
		chunks[i].Vector = vectors[i]
	}

	return s.chunks.UpdateChunks(ctx, chunks...)
}

// Search embeds the query and returns up to k chunks above the
// similarity threshold, most relevant first. Chunks containing every
// query word verbatim get a score boost. A non-positive threshold falls
// back to the default.
func (s *Store) Search(ctx context.Context, query string, k int, threshold float32) ([]*core.ChunkResult, error) {
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	results, err := s.chunks.FindSimilar(ctx, embedding, threshold, k)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	for _, result := range results {
		if containsAllQueryWords(result.Chunk.Text, query) {
			result.Score += 0.3
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}
