// Package storage provides the key-value persistence backends that hold the
// annotation record: a JSON file per key, a SQLite table, and an in-memory map
// for tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Errors returned by backends.
var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
	ErrClosed     = errors.New("backend closed")
)

// Backend is a minimal key-value store. Values are opaque bytes.
//
// Get returns [ErrNotFound] if the key has never been written or was deleted.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Watchable is implemented by backends whose data lives in a file that can be
// observed for changes.
type Watchable interface {
	WatchPath(key string) string
}

// Kind names a backend implementation in configuration.
type Kind string

// Backend kinds.
const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// validateKey rejects keys that could escape the storage directory or are
// otherwise unusable as file names.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}
