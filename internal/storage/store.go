// Package storage provides the persistence layer under the archive: a
// small versioned-key blob store with an explicit capacity-exceeded
// failure mode, so callers can degrade what they persist and retry.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the key has never been written (or was deleted).
	ErrNotFound = errors.New("storage: key not found")
	// ErrCapacityExceeded signals a quota failure. Callers may shrink the
	// payload and retry; any other write error is not worth retrying.
	ErrCapacityExceeded = errors.New("storage: capacity exceeded")
)

// Store persists opaque blobs under string keys.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
