// Package blobstore persists opaque snapshots under fixed keys.
//
// The ledger is serialized as one blob under a single key, overwritten in
// full on every write. Backends differ only in where the blob lives.
package blobstore

import "context"

// Store is the persistence boundary for serialized snapshots.
type Store interface {
	// Get returns the blob stored under key. The boolean reports whether
	// a value was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set overwrites the blob stored under key in full.
	Set(ctx context.Context, key string, blob []byte) error

	Close() error
}
