package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
	fileExt   = ".json"
)

// File stores each key as <dir>/<key>.json. Writes go through a temp file and
// rename so readers never see a partial record, and take an advisory lock so
// two processes never interleave their renames. There is no conflict
// detection: the last write wins.
type File struct {
	dir    string
	log    *zap.Logger
	closed bool
}

// NewFile returns a File backend rooted at dir. The directory is created on
// first write.
func NewFile(dir string, log *zap.Logger) *File {
	if log == nil {
		log = zap.NewNop()
	}

	return &File{dir: dir, log: log}
}

// WatchPath returns the file holding key.
func (f *File) WatchPath(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	if f.closed {
		return nil, ErrClosed
	}

	err := validateKey(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.WatchPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	return data, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if f.closed {
		return ErrClosed
	}

	err := validateKey(key)
	if err != nil {
		return err
	}

	err = os.MkdirAll(f.dir, dirPerms)
	if err != nil {
		return fmt.Errorf("creating storage dir: %w", err)
	}

	path := f.WatchPath(key)

	return withLock(path, func() error {
		writeErr := atomic.WriteFile(path, bytes.NewReader(value))
		if writeErr != nil {
			return fmt.Errorf("writing %s: %w", key, writeErr)
		}

		f.log.Debug("stored record", zap.String("key", key), zap.Int("bytes", len(value)))

		return nil
	})
}

func (f *File) Delete(_ context.Context, key string) error {
	if f.closed {
		return ErrClosed
	}

	err := validateKey(key)
	if err != nil {
		return err
	}

	path := f.WatchPath(key)

	return withLock(path, func() error {
		removeErr := os.Remove(path)
		if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			return fmt.Errorf("deleting %s: %w", key, removeErr)
		}

		return nil
	})
}

func (f *File) Close() error {
	f.closed = true
	return nil
}
