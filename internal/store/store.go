// Package store persists daybook collections in a key-value store that
// mirrors browser local storage: each collection is one JSON value under a
// fixed key.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// KV is a string-keyed store of opaque values.
//
// Get returns [ErrNotFound] for absent keys. Update runs fn with the current
// value (nil when absent) and stores what it returns, with no other writer
// in between; returning a nil value leaves the key untouched.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open creates dataDir if needed and opens the named backend in it.
func Open(ctx context.Context, backend, dataDir string, log *logrus.Entry) (KV, error) {
	if ctx == nil {
		return nil, errors.New("open store: context is nil")
	}

	if dataDir == "" {
		return nil, errors.New("open store: data directory is empty")
	}

	log = orDiscard(log).WithField("backend", backend)

	dir := filepath.Clean(dataDir)

	err := os.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open store: create data directory: %w", err)
	}

	switch backend {
	case BackendFile, "":
		log.WithField("dir", dir).Debug("opening file store")

		return OpenFile(dir, log)
	case BackendSQLite:
		log.WithField("dir", dir).Debug("opening sqlite store")

		return OpenSQLite(ctx, filepath.Join(dir, sqliteFileName), log)
	default:
		return nil, fmt.Errorf("open store: %w: %q", ErrUnknownBackend, backend)
	}
}

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

func orDiscard(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	return logrus.NewEntry(l)
}
