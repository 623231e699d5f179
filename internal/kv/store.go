// Package kv defines the key-value storage used for every persisted
// collection in the application.  Each collection is a single JSON blob
// stored under a well known key; callers serialize and deserialize the
// values themselves.  Backends exist for Redis, MySQL, SQLite and an
// in-process map.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("kv: key not found")

// ErrConflict is returned by Update when the optimistic transaction could
// not be committed after the maximum number of retries.
var ErrConflict = errors.New("kv: concurrent update conflict")

// UpdateFunc receives the current value of a key (nil when the key is
// absent) and returns the value to store.  Returning an error aborts the
// update and the error is passed back to the caller of Update unchanged.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is implemented by every storage backend.
type Store interface {
	// Get returns the raw value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key.  A ttl of zero means the key never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key.  Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Update atomically replaces the value of key with the result of fn.
	// Concurrent Updates on the same key never lose writes.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	// Close releases backend resources.
	Close() error
}

// maxUpdateRetries bounds optimistic retries for backends that detect
// conflicts instead of locking.
const maxUpdateRetries = 16
