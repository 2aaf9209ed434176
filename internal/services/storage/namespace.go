package storage

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned when a write does not fit in the namespace.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotFound      = errors.New("showcase not found")
)

// Namespace is a text key-value store scoped to one application, with a byte
// quota counted over key and value lengths. It stands in for the browser's
// per-origin storage.
type Namespace interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (string, bool, error)
	RemoveItem(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

func itemSize(key, value string) int64 {
	return int64(len(key) + len(value))
}
