// Package storage provides the key-value stores that persist encoded game
// state.
package storage

import "context"

// Reader reads a stored value. ok is false when the key is absent.
type Reader interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
}

// Writer stores and removes values.
type Writer interface {
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is a key-value store for encoded state.
type Store interface {
	Reader
	Writer
	Close() error
}
