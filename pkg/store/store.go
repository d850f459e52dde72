// Package store persists the board as a single serialized blob in a
// key-value backend.
//
// Three backends implement KV: FileKV (one JSON file per key, the default),
// SQLiteKV (one row per key) and MemoryKV (tests and ephemeral runs). The
// board always lives under BoardKey.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/config"
)

// BoardKey is the key the board blob is stored under.
const BoardKey = "columns"

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a minimal blob store.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileKV(cfg.ResolvedPath())
	case config.BackendSQLite:
		return OpenSQLite(cfg.ResolvedPath())
	case config.BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Locator is implemented by backends whose keys map to files on disk.
type Locator interface {
	PathFor(key string) string
}
