// Package kv provides the key-value byte store the document persists to.
// Backends range from an in-memory map for tests up to Postgres, Redis and
// S3; the store treats them all as one slot it reads and overwrites whole.
package kv

import (
	"context"
	"errors"
)

// Store is a minimal key-value byte store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the backend connection health.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Store errors.
var (
	// ErrNotFound indicates the key has no stored value.
	ErrNotFound = errors.New("key not found")
)
