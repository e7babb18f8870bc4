package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// locksDirName is the subdirectory for lock files. Keeping locks out of the
// journal root leaves its mtime untouched by lock traffic.
const locksDirName = ".locks"

const lockFileName = "journal.lock"

// DefaultLockTimeout is used when [Options.LockTimeout] is zero.
const DefaultLockTimeout = 2 * time.Second

// lockPollInterval is how often a contended lock is retried.
const lockPollInterval = 10 * time.Millisecond

type lockMode int

const (
	lockShared lockMode = iota
	lockExclusive
)

func (m lockMode) how() int {
	if m == lockExclusive {
		return unix.LOCK_EX
	}

	return unix.LOCK_SH
}

// fileLock is a held flock on the journal lock file.
type fileLock struct {
	file *os.File
}

// release unlocks and closes. The lock file itself is never removed, so
// waiters never end up holding a lock on an unlinked inode.
func (l *fileLock) release() {
	if l.file == nil {
		return
	}

	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}

// acquireLock takes the journal lock in mode, polling until timeout expires or
// ctx is done.
func acquireLock(ctx context.Context, dir string, mode lockMode, timeout time.Duration) (*fileLock, error) {
	locksDir := filepath.Join(dir, locksDirName)

	mkdirErr := os.MkdirAll(locksDir, dirPerms)
	if mkdirErr != nil {
		return nil, fmt.Errorf("creating locks dir: %w", mkdirErr)
	}

	lockPath := filepath.Join(locksDir, lockFileName)

	file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
	if openErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockFileOpen, openErr)
	}

	deadline := time.Now().Add(timeout)
	fd := int(file.Fd())

	for {
		err := unix.Flock(fd, mode.how()|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = file.Close()

			return nil, fmt.Errorf("flock: %w", err)
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lockPath)
		}

		select {
		case <-ctx.Done():
			_ = file.Close()

			return nil, fmt.Errorf("waiting for lock: %w", ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

// withLock runs fn while holding the journal lock in mode.
func (j *Journal) withLock(ctx context.Context, mode lockMode, fn func() error) error {
	lock, err := acquireLock(ctx, j.dir, mode, j.opts.LockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	return fn()
}
