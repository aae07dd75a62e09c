// Package store persists workflow state as key/value pairs.
package store

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("key not found")

// KV is a key/value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns all values with keys beginning with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}
