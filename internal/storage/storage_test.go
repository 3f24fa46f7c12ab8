package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calvinalkan/flowmap/internal/storage"
)

type backendFactory func(t *testing.T) storage.Backend

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		"file": func(t *testing.T) storage.Backend {
			t.Helper()

			return storage.NewFile(filepath.Join(t.TempDir(), "state"), zap.NewNop())
		},
		"sqlite": func(t *testing.T) storage.Backend {
			t.Helper()

			db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "state", "flowmap.db"), zap.NewNop())
			require.NoError(t, err)

			return db
		},
		"memory": func(t *testing.T) storage.Backend {
			t.Helper()

			return storage.NewMemory()
		},
	}
}

func TestBackend_GetMissingKeyReturnsErrNotFound(t *testing.T) {
	t.Parallel()

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := open(t)
			defer func() { _ = b.Close() }()

			_, err := b.Get(context.Background(), "hubspot-flow-state")
			if !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("Get() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestBackend_SetThenGetReturnsLastWrite(t *testing.T) {
	t.Parallel()

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			b := open(t)
			defer func() { _ = b.Close() }()

			require.NoError(t, b.Set(ctx, "k", []byte(`{"a":1}`)))
			require.NoError(t, b.Set(ctx, "k", []byte(`{"a":2}`)))

			got, err := b.Get(ctx, "k")
			require.NoError(t, err)

			if string(got) != `{"a":2}` {
				t.Errorf("Get() = %q, want %q", got, `{"a":2}`)
			}
		})
	}
}

func TestBackend_DeleteRemovesKeyAndIsIdempotent(t *testing.T) {
	t.Parallel()

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			b := open(t)
			defer func() { _ = b.Close() }()

			require.NoError(t, b.Set(ctx, "k", []byte("v")))
			require.NoError(t, b.Delete(ctx, "k"))
			require.NoError(t, b.Delete(ctx, "k"))

			_, err := b.Get(ctx, "k")
			if !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("Get() after Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestBackend_RejectsKeysThatEscapeTheDirectory(t *testing.T) {
	t.Parallel()

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := open(t)
			defer func() { _ = b.Close() }()

			for _, key := range []string{"", "..", "a/b", `a\b`} {
				err := b.Set(context.Background(), key, []byte("v"))
				if !errors.Is(err, storage.ErrInvalidKey) {
					t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestFile_WritesRecordAsJSONFileAndLeavesNoLock(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "state")
	f := storage.NewFile(dir, nil)

	require.NoError(t, f.Set(context.Background(), "hubspot-flow-state", []byte("{}")))

	path := f.WatchPath("hubspot-flow-state")
	if path != filepath.Join(dir, "hubspot-flow-state.json") {
		t.Fatalf("WatchPath() = %q", path)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	if string(data) != "{}" {
		t.Errorf("file content = %q, want {}", data)
	}

	entries, err := os.ReadDir(filepath.Join(dir, ".locks"))
	require.NoError(t, err)

	if len(entries) != 0 {
		t.Errorf("lock dir has %d entries after write, want 0", len(entries))
	}
}

func TestFile_ConcurrentWritersNeverLeavePartialRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	a := storage.NewFile(dir, nil)
	b := storage.NewFile(dir, nil)

	payloadA := []byte(`{"writer":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`)
	payloadB := []byte(`{"writer":"b"}`)

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			w, p := a, payloadA
			if i%2 == 1 {
				w, p = b, payloadB
			}

			if err := w.Set(ctx, "k", p); err != nil {
				t.Errorf("Set() error: %v", err)
			}
		}()
	}

	wg.Wait()

	got, err := a.Get(ctx, "k")
	require.NoError(t, err)

	if string(got) != string(payloadA) && string(got) != string(payloadB) {
		t.Fatalf("record is neither writer's payload: %q", got)
	}
}

func TestFile_ClosedBackendRejectsCalls(t *testing.T) {
	t.Parallel()

	f := storage.NewFile(t.TempDir(), nil)
	require.NoError(t, f.Close())

	_, err := f.Get(context.Background(), "k")
	if !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flowmap.db")

	db, err := storage.OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = storage.OpenSQLite(ctx, path, nil)
	require.NoError(t, err)

	defer func() { _ = db.Close() }()

	got, err := db.Get(ctx, "k")
	require.NoError(t, err)

	if string(got) != "persisted" {
		t.Errorf("Get() = %q, want %q", got, "persisted")
	}
}

func TestSQLite_CreatesNothingUntilFirstWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")

	db, err := storage.Open(ctx, storage.KindSQLite, dir, nil)
	require.NoError(t, err)

	defer func() { _ = db.Close() }()

	_, err = db.Get(ctx, "k")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	require.NoError(t, db.Delete(ctx, "k"))

	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("state dir exists before any write (stat err = %v)", err)
	}

	require.NoError(t, db.Set(ctx, "k", []byte("v")))

	if _, err := os.Stat(filepath.Join(dir, storage.SQLiteFileName)); err != nil {
		t.Errorf("database missing after Set: %v", err)
	}
}

func TestSQLite_ClosedBackendRejectsCalls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "flowmap.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	err = db.Set(ctx, "k", []byte("v"))
	if !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
}

func TestOpen_SelectsBackendByKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	fb, err := storage.Open(ctx, storage.KindFile, dir, nil)
	require.NoError(t, err)

	if _, ok := fb.(*storage.File); !ok {
		t.Errorf("Open(file) = %T, want *storage.File", fb)
	}

	sb, err := storage.Open(ctx, storage.KindSQLite, dir, nil)
	require.NoError(t, err)

	defer func() { _ = sb.Close() }()

	if _, ok := sb.(*storage.SQLite); !ok {
		t.Errorf("Open(sqlite) = %T, want *storage.SQLite", sb)
	}

	_, err = storage.Open(ctx, "redis", dir, nil)
	if err == nil {
		t.Error("Open(redis) succeeded, want error")
	}
}

func TestMemory_InjectedErrorsAreReturned(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	m := storage.NewMemory()
	m.SetErr = boom

	err := m.Set(context.Background(), "k", []byte("v"))
	if !errors.Is(err, boom) {
		t.Fatalf("Set() error = %v, want %v", err, boom)
	}

	if m.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", m.Writes())
	}
}
