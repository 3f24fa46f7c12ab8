package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/assemble"
	"github.com/calvinalkan/flowmap/internal/storage"

	flag "github.com/spf13/pflag"
)

// watchDebounce coalesces the burst of events one atomic save produces.
const watchDebounce = 100 * time.Millisecond

var errNotWatchable = errors.New("storage backend cannot be watched")

// watchCmd returns the watch command.
func watchCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("watch", flag.ContinueOnError),
		Usage: "watch",
		Short: "Follow annotation changes from other processes",
		Examples: []string{
			"--backend sqlite watch",
		},
		Long: `Reload the annotation record whenever it changes on disk and print what
changed in the selected diagram. Runs until interrupted.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execWatch(ctx, io, a)
		},
	}
}

func execWatch(ctx context.Context, io *IO, a *app) error {
	store, session, err := a.session(ctx, a.variant())
	if err != nil {
		return err
	}
	defer session.Close()

	w, ok := a.backend.(storage.Watchable)
	if !ok {
		return errNotWatchable
	}

	path := w.WatchPath(annotation.StorageKey)

	rw, err := newRecordWatcher(path, a.log)
	if err != nil {
		return err
	}
	defer rw.Close()

	prev := session.Diagram()

	session.OnChange(func(d assemble.Diagram) {
		changes := assemble.Diff(prev, d)
		prev = d

		if len(changes) == 0 {
			return
		}

		io.Printf("%s reloaded\n", a.now().Format(time.TimeOnly))

		for _, c := range changes {
			io.Println("  " + c.String())
		}
	})

	io.Printf("watching %s (Ctrl-C to stop)\n", path)

	return rw.Run(ctx, func() { store.Load(ctx) })
}

// recordWatcher reports changes to one file by watching its directory, so
// atomic replacements (rename over the old file) are seen too.
type recordWatcher struct {
	watcher  *fsnotify.Watcher
	names    []string
	log      *zap.Logger
	debounce time.Duration
}

func newRecordWatcher(path string, log *zap.Logger) (*recordWatcher, error) {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	err = watcher.Add(dir)
	if err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	base := filepath.Base(path)

	return &recordWatcher{
		watcher: watcher,
		// SQLite commits land in the write-ahead log first.
		names:    []string{base, base + "-wal"},
		log:      log,
		debounce: watchDebounce,
	}, nil
}

// Run calls onChange once per burst of changes until ctx is done.
func (r *recordWatcher) Run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(r.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}

			if !r.relevant(event) {
				continue
			}

			r.log.Debug("record changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(r.debounce)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}

			r.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			onChange()
		}
	}
}

func (r *recordWatcher) relevant(event fsnotify.Event) bool {
	if !slices.Contains(r.names, filepath.Base(event.Name)) {
		return false
	}

	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (r *recordWatcher) Close() error {
	return r.watcher.Close()
}
