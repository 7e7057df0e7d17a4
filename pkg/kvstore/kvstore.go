package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Load when no value exists for the key.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the persistence adapter for the portal: opaque JSON documents
// addressed by key, durable across restarts. Each repository owns one key
// and rewrites the full document on every mutation.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
