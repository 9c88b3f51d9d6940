package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or
// was deleted.
var ErrNotFound = errors.New("key not found")

// Store is the durable key/value storage the client keeps its session in.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// SetAll writes every entry or none of them.
	SetAll(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error

	Close() error
}
