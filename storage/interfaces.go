package storage

import (
	"context"
	"time"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository. It does not
	// close the underlying backend, which may be shared.
	Close() error
}

// ChunkRepository provides operations for managing document chunks.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more chunks to storage.
	// For chunks with ID=0, derives a content-based ID.
	// Sets InsertedAt if not already set.
	// Returns the chunks with IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.DocumentChunk) ([]*core.DocumentChunk, error)

	// UpdateChunks replaces existing chunks, typically after embedding.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.DocumentChunk) error

	// DeleteChunks removes chunks by their IDs.
	// Also removes associated document index entries.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.DocumentChunk, error)

	// GetChunksByDocument retrieves all chunks of a document, ordered
	// by sequence number.
	GetChunksByDocument(ctx context.Context, document string) ([]*core.DocumentChunk, error)

	// DeleteDocument removes every chunk of a document. Deleting an
	// unknown document is not an error.
	DeleteDocument(ctx context.Context, document string) error

	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkResult, error)
}

// EnvelopeCache caches search envelopes under caller-chosen keys with
// a time-to-live, so repeat category searches skip the network.
type EnvelopeCache interface {
	// GetEnvelope returns the cached envelope for key, or nil with no
	// error when the key is absent or expired.
	GetEnvelope(ctx context.Context, key string) (*core.Envelope, error)

	// PutEnvelope stores an envelope under key for ttl.
	PutEnvelope(ctx context.Context, key string, envelope *core.Envelope, ttl time.Duration) error

	// Close releases resources held by the cache.
	Close() error
}
