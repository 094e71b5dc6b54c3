package badger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/kyliekoshet/ZyoniaRAG/core"
	"github.com/kyliekoshet/ZyoniaRAG/storage"
)

// EnvelopeCache implements storage.EnvelopeCache for BadgerDB.
// Entries are stored as JSON with a Badger TTL, so expiry is enforced
// by the database itself.
type EnvelopeCache struct {
	backend *Backend
}

var _ storage.EnvelopeCache = (*EnvelopeCache)(nil)

// NewEnvelopeCache creates a new EnvelopeCache.
func NewEnvelopeCache(backend *Backend) (*EnvelopeCache, error) {
	return &EnvelopeCache{backend: backend}, nil
}

// Close implements storage.EnvelopeCache. The cache holds no resources
// of its own; the backend is closed separately.
func (c *EnvelopeCache) Close() error {
	return nil
}

// GetEnvelope retrieves a cached envelope by key.
// Returns nil, nil when no entry exists or the entry has expired.
func (c *EnvelopeCache) GetEnvelope(ctx context.Context, key string) (*core.Envelope, error) {
	var envelope *core.Envelope

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEnvelopeKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var decoded core.Envelope
			if err := json.Unmarshal(val, &decoded); err != nil {
				return err
			}
			envelope = &decoded
			return nil
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// PutEnvelope stores an envelope under the given key with a TTL.
// A non-positive TTL stores the entry without expiry.
func (c *EnvelopeCache) PutEnvelope(ctx context.Context, key string, envelope *core.Envelope, ttl time.Duration) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeEnvelopeKey(key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
