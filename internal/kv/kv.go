// Package kv provides the key/value persistence capability used by the
// reading store and the event log: set, get, and prefix scan.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key/value store with prefix-scan support.
// Values are opaque byte slices (JSON-encoded by callers).
type Store interface {
	// Set writes value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetByPrefix returns all values whose key starts with prefix.
	// Order is unspecified; callers sort.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)

	// Close releases any underlying resources.
	Close() error
}
