package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// KV is a byte-oriented key-value backend. Set fully overwrites the previous
// value of key.
type KV interface {
	// Get returns ErrKeyNotFound when key was never written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
