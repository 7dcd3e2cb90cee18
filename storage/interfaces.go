package storage

import (
	"context"

	"github.com/poiesic/qamatch/core"
)

// Key addresses one cached vector.
type Key struct {
	Namespace string  // Embedder fingerprint
	ID        core.ID // Candidate question ID
}

// VectorCache persists candidate sentence vectors.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// Get returns the vector stored under key.
	// Returns ErrNotFound if nothing is stored.
	Get(ctx context.Context, key Key) ([]float32, error)

	// Put stores vec under key, replacing any previous value.
	Put(ctx context.Context, key Key, vec []float32) error

	// Count returns the number of vectors across all namespaces.
	Count(ctx context.Context) (int, error)

	// Purge removes every vector in namespace. An empty namespace removes
	// everything.
	Purge(ctx context.Context, namespace string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
