package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"go.uber.org/zap"
)

// SQLiteFileName is the database file created inside the state directory.
const SQLiteFileName = "flowmap.db"

// SQLite stores records in a single kv table.
//
// The database file is created by the first write. Until then reads report
// [ErrNotFound] and nothing is created on disk.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	log    *zap.Logger
	closed bool
}

// OpenSQLite opens the database at path if it exists. A missing database is
// created on the first Set.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	if log == nil {
		log = zap.NewNop()
	}

	s := &SQLite{path: path, log: log}

	_, err := s.conn(ctx, false)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// conn returns the open database. When the file does not exist yet it
// returns nil, unless create is set.
func (s *SQLite) conn(ctx context.Context, create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if s.db != nil {
		return s.db, nil
	}

	_, err := os.Stat(s.path)

	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !create:
		return nil, nil
	case errors.Is(err, fs.ErrNotExist):
		err = os.MkdirAll(filepath.Dir(s.path), dirPerms)
		if err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}
	default:
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}

	db, err := openDB(ctx, s.path)
	if err != nil {
		return nil, err
	}

	s.db = db

	return db, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return db, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 2000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

// WatchPath returns the database file, which holds every key.
func (s *SQLite) WatchPath(string) string { return s.path }

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	db, err := s.conn(ctx, false)
	if err != nil {
		return nil, err
	}

	if db == nil {
		return nil, ErrNotFound
	}

	var value []byte

	err = db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("select %s: %w", key, err)
	}

	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	err := validateKey(key)
	if err != nil {
		return err
	}

	db, err := s.conn(ctx, true)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	s.log.Debug("stored record", zap.String("key", key), zap.Int("bytes", len(value)))

	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	db, err := s.conn(ctx, false)
	if err != nil || db == nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}

	return nil
}
