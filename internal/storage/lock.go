package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// locksDirName keeps lock files out of the record directory so watchers of a
// record file see only record writes.
const locksDirName = ".locks"

// LockTimeout bounds how long a write waits for another process.
const LockTimeout = 2 * time.Second

// Poll interval bounds while another process holds the lock.
const (
	lockRetryMin = time.Millisecond
	lockRetryMax = 25 * time.Millisecond
)

var (
	errLockTimeout   = errors.New("lock timeout")
	errLockFileOpen  = errors.New("failed to open lock file")
	errWouldBlock    = errors.New("lock held by another process")
	errInodeMismatch = errors.New("lock file replaced while acquiring")
)

// withLock runs handler while holding an exclusive advisory lock for path.
func withLock(path string, handler func() error) error {
	lock, err := acquireLock(path, LockTimeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	return handler()
}

type fileLock struct {
	path string
	file *os.File
}

// release removes the lock file while still holding the lock, then unlocks.
func (l *fileLock) release() {
	if l.file != nil {
		_ = os.Remove(l.path)
		_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
		_ = l.file.Close()
		l.file = nil
	}
}

// acquireLock takes an exclusive flock on <dir>/.locks/<base>.lock, polling
// with LOCK_NB until timeout. Because release unlinks the lock file, a waiter
// may end up holding a lock on an inode that is no longer at the path; the
// inode check after flock catches that and retries with a fresh file.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	locksDir := filepath.Join(filepath.Dir(path), locksDirName)
	lockPath := filepath.Join(locksDir, filepath.Base(path)+".lock")

	err := os.MkdirAll(locksDir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("creating locks dir: %w", err)
	}

	deadline := time.Now().Add(timeout)
	backoff := lockRetryMin

	for {
		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errLockFileOpen, err)
		}

		err = tryLock(file, lockPath)
		if err == nil {
			return &fileLock{path: lockPath, file: file}, nil
		}

		_ = file.Close()

		if !errors.Is(err, errWouldBlock) && !errors.Is(err, errInodeMismatch) {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w after %s: %s", errLockTimeout, timeout, path)
		}

		time.Sleep(min(backoff, remaining))

		backoff = min(backoff*2, lockRetryMax)
	}
}

// tryLock flocks file without blocking and checks that it is still the file
// at path. On failure the file is unlocked but not closed.
func tryLock(file *os.File, path string) error {
	fd := int(file.Fd())

	err := flockNoEINTR(fd, unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return errWouldBlock
		}

		return fmt.Errorf("flock: %w", err)
	}

	var openStat, pathStat unix.Stat_t

	err = unix.Fstat(fd, &openStat)
	if err != nil {
		_ = unix.Flock(fd, unix.LOCK_UN)

		return fmt.Errorf("fstat lock file: %w", err)
	}

	err = unix.Stat(path, &pathStat)
	if err != nil || pathStat.Ino != openStat.Ino || pathStat.Dev != openStat.Dev {
		_ = unix.Flock(fd, unix.LOCK_UN)

		return errInodeMismatch
	}

	return nil
}

func flockNoEINTR(fd int, how int) error {
	for {
		err := unix.Flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
