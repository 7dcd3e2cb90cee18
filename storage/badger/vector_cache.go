package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/qamatch/core"
	"github.com/poiesic/qamatch/storage"
)

// VectorCache implements storage.VectorCache for BadgerDB.
type VectorCache struct {
	backend *Backend
}

var _ storage.VectorCache = (*VectorCache)(nil)

// newVectorCache is an internal constructor that returns the concrete type.
func newVectorCache(backend *Backend) *VectorCache {
	return &VectorCache{backend: backend}
}

// NewVectorCache opens (or creates) a persistent vector cache at path.
//
// Returns storage.VectorCache interface to enforce abstraction.
func NewVectorCache(path string) (storage.VectorCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector cache at %s: %w", path, err)
	}
	return newVectorCache(backend), nil
}

func (c *VectorCache) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// Get returns the vector stored under key.
func (c *VectorCache) Get(ctx context.Context, key storage.Key) ([]float32, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	if key.Namespace == "" {
		return nil, storage.ErrInvalidKey
	}

	var record *core.CachedVector
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(key.Namespace, key.ID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalCachedVector(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if record.ID != key.ID {
		return nil, fmt.Errorf("%w: record id %d stored under key id %d",
			storage.ErrSerializationFailed, record.ID, key.ID)
	}
	return record.Vector, nil
}

// Put stores vec under key.
func (c *VectorCache) Put(ctx context.Context, key storage.Key, vec []float32) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	if key.Namespace == "" {
		return storage.ErrInvalidKey
	}

	value := storage.MarshalCachedVector(&core.CachedVector{
		ID:        key.ID,
		Vector:    vec,
		CreatedAt: time.Now().UTC(),
	})
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(key.Namespace, key.ID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of cached vectors.
func (c *VectorCache) Count(ctx context.Context) (int, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}

	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Purge removes every vector in namespace.
func (c *VectorCache) Purge(ctx context.Context, namespace string) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	c.backend.logger.Info("purging vector cache", "namespace", namespace)
	return c.backend.DropPrefix(makeNamespacePrefix(namespace))
}

// Close releases the backend. Closing twice is a no-op.
func (c *VectorCache) Close() error {
	if c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
