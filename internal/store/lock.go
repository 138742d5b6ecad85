package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout bounds how long a FileKV operation waits for the data
// directory lock.
const LockTimeout = 2 * time.Second

type fileLock struct {
	file *os.File
}

func (l *fileLock) release() {
	if l.file != nil {
		_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
		_ = l.file.Close()
		l.file = nil
	}
}

// acquireLock takes an exclusive flock on path, creating it if needed. The
// lock file is never removed, so waiters always contend on the same inode.
func acquireLock(ctx context.Context, path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, filePerms)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	fd := int(file.Fd())

	// Fast path: uncontended.
	err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return &fileLock{file: file}, nil
	}

	if !errors.Is(err, unix.EWOULDBLOCK) {
		_ = file.Close()

		return nil, fmt.Errorf("flock: %w", err)
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = file.Close()

			return nil, fmt.Errorf("acquire lock: %w", ctx.Err())
		case <-deadline.C:
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		case <-ticker.C:
			err = unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
			if err == nil {
				return &fileLock{file: file}, nil
			}

			if !errors.Is(err, unix.EWOULDBLOCK) {
				_ = file.Close()

				return nil, fmt.Errorf("flock: %w", err)
			}
		}
	}
}
