// Package filterstore persists serialized filter selections in a key-value
// store. The facet engine only sees the Store interface, so tests run on
// MemoryStore and production on Redis.
package filterstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("filter state not found")
	ErrEmptyKey = errors.New("store key is empty")
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
