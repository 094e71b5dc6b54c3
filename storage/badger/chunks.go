package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close implements storage.Repository. The repository holds no
// resources of its own; the backend is closed separately.
func (r *ChunkRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// chunkContentID derives a deterministic ID from a chunk's identity,
// so re-ingesting the same document overwrites instead of duplicating.
func chunkContentID(chunk *core.DocumentChunk) core.ID {
	return core.IDFromContent(fmt.Sprintf("%s:%d:%s", chunk.Document, chunk.Seq, chunk.Text))
}

// AddChunks adds one or more chunks to storage.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.DocumentChunk) ([]*core.DocumentChunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if chunk.Id == 0 {
				chunk.Id = chunkContentID(chunk)
			}
			if chunk.InsertedAt.IsZero() {
				chunk.InsertedAt = time.Now().UTC()
			}

			key := makeChunkKey(chunk.Id)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}

			docKey := makeChunkDocKey(chunk.Document, chunk.Seq, chunk.Id)
			if err := tx.Set(docKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// UpdateChunks replaces existing chunks, typically after embedding.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.DocumentChunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.Id)

			old, err := r.readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}

			// Move the document index entry if the position changed.
			if old.Document != chunk.Document || old.Seq != chunk.Seq {
				if err := tx.Delete(makeChunkDocKey(old.Document, old.Seq, old.Id)); err != nil {
					return err
				}
				docKey := makeChunkDocKey(chunk.Document, chunk.Seq, chunk.Id)
				if err := tx.Set(docKey, storage.MarshalID(chunk.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteChunks removes chunks by their IDs.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeChunkKey(id)

			chunk, err := r.readChunk(tx, key)
			if err != nil {
				return err
			}
			if chunk == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeChunkDocKey(chunk.Document, chunk.Seq, chunk.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error) {
	var result *core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves multiple chunks by their IDs.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.DocumentChunk, error) {
	var result []*core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				result = append(result, chunk)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetChunksByDocument retrieves all chunks of a document in sequence order.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, document string) ([]*core.DocumentChunk, error) {
	var results []*core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := r.documentChunkIDs(tx, document)
		if err != nil {
			return err
		}
		for _, id := range ids {
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteDocument removes every chunk of a document.
func (r *ChunkRepository) DeleteDocument(ctx context.Context, document string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := r.documentChunkIDs(tx, document)
		if err != nil {
			return err
		}
		for _, id := range ids {
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			if err := tx.Delete(makeChunkDocKey(chunk.Document, chunk.Seq, chunk.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// documentChunkIDs scans the document index and returns chunk IDs in
// sequence order.
func (r *ChunkRepository) documentChunkIDs(tx *badger.Txn, document string) ([]core.ID, error) {
	var ids []core.ID

	startKey := makePartialChunkDocKey(document)
	iter := tx.NewIterator(badger.DefaultIteratorOptions)
	defer iter.Close()

	for iter.Seek(startKey); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
			break
		}

		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// readChunk reads a chunk from the transaction.
// Returns nil, nil when the key does not exist.
func (r *ChunkRepository) readChunk(tx *badger.Txn, key []byte) (*core.DocumentChunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.DocumentChunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
