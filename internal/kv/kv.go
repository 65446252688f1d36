// Package kv holds the key-value backends the record store persists into.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the storage port: opaque values under string keys, each Put replacing
// the previous value whole.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
