// Package kv provides the key-value persistence capability plotgrid stores
// its layout in.
//
// The [Store] interface is deliberately small: a layout is one record under
// one key, so backends only need point reads and writes.
//
// # Backends
//
//   - [FileStore]: JSON files under a directory (default for the CLI)
//   - [MemoryStore]: process memory, for tests and ephemeral sessions
//   - [NullStore]: never stores anything
//   - [RedisStore]: Redis, for editors shared by several hosts
//   - [MongoStore]: one MongoDB document per key
//   - [SQLiteStore]: a single-table SQLite database
//
// Use [Open] to construct a backend from a [Config].
package kv

import (
	"context"
)

// Store is a key-value store. Get reports a missing key as (nil, false, nil).
type Store interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
