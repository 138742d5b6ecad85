package store

import "errors"

// ErrNotFound reports a key with no stored value.
var ErrNotFound = errors.New("key not found")

// ErrCorrupt reports a stored value that does not decode.
var ErrCorrupt = errors.New("stored value corrupt")

// ErrClosed reports use of a store after Close.
var ErrClosed = errors.New("store closed")

// ErrUnknownBackend reports a backend name Open does not know.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrLockTimeout reports a data directory held by another process too long.
var ErrLockTimeout = errors.New("lock timeout")

// ErrSchemaVersion reports a SQLite database written by a newer daybook.
var ErrSchemaVersion = errors.New("unsupported schema version")
