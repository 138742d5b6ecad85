package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/sirupsen/logrus"
)

// errSkipWrite lets a document callback end without rewriting the file.
var errSkipWrite = errors.New("skip write")

const (
	fileStoreName = "store.json"
	fileLockName  = "store.lock"
)

// FileKV keeps every key in one JSON object on disk. Each operation takes an
// exclusive flock on a sibling lock file, re-reads the document, and for
// writes replaces it atomically, so concurrent daybook processes never see a
// torn file.
//
// Values must themselves be JSON.
type FileKV struct {
	path     string
	lockPath string
	log      *logrus.Entry

	mu     sync.Mutex
	closed bool
}

// OpenFile opens (without creating) the file store in dir.
func OpenFile(dir string, log *logrus.Entry) (*FileKV, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("open file store: %s is not a directory", dir)
	}

	return &FileKV{
		path:     filepath.Join(dir, fileStoreName),
		lockPath: filepath.Join(dir, fileLockName),
		log:      orDiscard(log),
	}, nil
}

// Path returns the JSON document path.
func (s *FileKV) Path() string { return s.path }

// Get implements [KV].
func (s *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte

	err := s.withDocument(ctx, false, func(doc map[string]json.RawMessage) error {
		raw, ok := doc[key]
		if !ok {
			return fmt.Errorf("get %q: %w", key, ErrNotFound)
		}

		out = slices.Clone([]byte(raw))

		return nil
	})

	return out, err
}

// Put implements [KV].
func (s *FileKV) Put(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %q: value is not JSON", key)
	}

	return s.withDocument(ctx, true, func(doc map[string]json.RawMessage) error {
		doc[key] = slices.Clone(value)

		return nil
	})
}

// Update implements [KV].
func (s *FileKV) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	return s.withDocument(ctx, true, func(doc map[string]json.RawMessage) error {
		var current []byte
		if raw, ok := doc[key]; ok {
			current = slices.Clone([]byte(raw))
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if next == nil {
			return errSkipWrite
		}

		if !json.Valid(next) {
			return fmt.Errorf("update %q: value is not JSON", key)
		}

		doc[key] = next

		return nil
	})
}

// Delete implements [KV]. Deleting an absent key is not an error.
func (s *FileKV) Delete(ctx context.Context, key string) error {
	return s.withDocument(ctx, true, func(doc map[string]json.RawMessage) error {
		delete(doc, key)

		return nil
	})
}

// Keys implements [KV]. Keys are sorted.
func (s *FileKV) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	err := s.withDocument(ctx, false, func(doc map[string]json.RawMessage) error {
		keys = make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		return nil
	})

	return keys, err
}

// Close implements [KV]. Later calls fail with [ErrClosed].
func (s *FileKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func (s *FileKV) withDocument(ctx context.Context, write bool, fn func(map[string]json.RawMessage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	err := ctx.Err()
	if err != nil {
		return err
	}

	lock, err := acquireLock(ctx, s.lockPath, LockTimeout)
	if err != nil {
		return err
	}

	defer lock.release()

	doc, err := s.read()
	if err != nil {
		return err
	}

	err = fn(doc)
	if errors.Is(err, errSkipWrite) {
		return nil
	}

	if err != nil {
		return err
	}

	if !write {
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	data = append(data, '\n')

	err = atomic.WriteFile(s.path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	s.log.WithField("keys", len(doc)).Debug("wrote file store")

	return nil
}

func (s *FileKV) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doc := map[string]json.RawMessage{}

	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", s.path, ErrCorrupt, err)
	}

	return doc, nil
}
