// Package vector provides a namespaced vector store with cosine similarity search.
package vector

import (
	"context"
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when a vector does not match the store's
// configured dimension. Mismatches are hard errors, never coerced.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Record is a stored vector with its metadata.
type Record struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Match is a single query hit. Score is cosine similarity.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// Store holds vectors partitioned by namespace. Queries never cross
// namespaces. A namespace is bootstrapped on first use.
type Store interface {
	// Upsert inserts or replaces the vector for id in the namespace and
	// returns the number of vectors accepted (1 on success).
	Upsert(ctx context.Context, namespace, id string, vec []float32, metadata map[string]string) (int, error)
	// Fetch returns the record for id, or nil when absent.
	Fetch(ctx context.Context, namespace, id string) (*Record, error)
	// Query returns up to topK matches ordered by descending cosine similarity.
	Query(ctx context.Context, namespace string, vec []float32, topK int) ([]Match, error)
	// All returns every record in the namespace in insertion order.
	All(ctx context.Context, namespace string) ([]Record, error)
	// Count returns the number of vectors in the namespace.
	Count(ctx context.Context, namespace string) (int, error)
	// Save persists the store to path.
	Save(path string) error
	// Load replaces the store contents from path. Missing file is not an error.
	Load(path string) error
	Close() error
}

func dimensionError(got, want int) error {
	return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, got, want)
}
