package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/assemble"
	"github.com/calvinalkan/flowmap/internal/config"
	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/flow"
	"github.com/calvinalkan/flowmap/internal/storage"
)

// app holds what every command shares: the resolved config, the logger and
// the lazily opened annotation store. Commands that never touch annotations
// (glossary, print-config) never open a backend.
type app struct {
	cfg        config.Config
	env        map[string]string
	log        *zap.Logger
	collection dataset.Collection
	now        func() time.Time

	backend storage.Backend
	store   *annotation.Store
}

func newApp(cfg config.Config, env map[string]string, log *zap.Logger) *app {
	return &app{
		cfg:        cfg,
		env:        env,
		log:        log,
		collection: dataset.Default(),
		now:        time.Now,
	}
}

// variant is the configured variant. Config validation guarantees it parses.
func (a *app) variant() flow.Variant {
	v, err := flow.ParseVariant(a.cfg.Variant)
	if err != nil {
		return flow.VariantVanillaSoft
	}

	return v
}

// open opens the configured backend and loads the annotation store once.
func (a *app) open(ctx context.Context) (*annotation.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	backend, err := storage.Open(ctx, storage.Kind(a.cfg.Backend), a.cfg.StateDirAbs, a.log)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage in %s: %w", a.cfg.Backend, a.cfg.StateDirAbs, err)
	}

	a.backend = backend
	a.store = annotation.Open(ctx, backend,
		annotation.WithLogger(a.log),
		annotation.WithClock(a.now),
		annotation.WithCatalog(a.collection.Catalog()),
	)

	return a.store, nil
}

// session opens the store and assembles variant v. Callers close the session.
func (a *app) session(ctx context.Context, v flow.Variant) (*annotation.Store, *assemble.Session, error) {
	store, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}

	s, err := assemble.NewSession(store, a.collection, v)
	if err != nil {
		return nil, nil, err
	}

	return store, s, nil
}

// variantOf returns the variant whose dataset contains id, preferring the
// configured one.
func (a *app) variantOf(id string) (flow.Variant, flow.Kind, bool) {
	order := slices.Insert(slices.DeleteFunc(flow.Variants(), func(v flow.Variant) bool {
		return v == a.variant()
	}), 0, a.variant())

	for _, v := range order {
		ds, err := a.collection.For(v)
		if err != nil {
			continue
		}

		if n, ok := ds.Node(id); ok {
			return v, n.Kind(), true
		}
	}

	return "", "", false
}

// explainIgnored records why a request for id was a no-op.
func (a *app) explainIgnored(o *IO, id string, what string) {
	_, kind, ok := a.variantOf(id)
	if !ok {
		o.Warn("unknown node "+id, "run 'flowmap show' to list node ids")
		return
	}

	o.Warn(fmt.Sprintf("%s ignored for %s node %s", what, kind, id), "only content nodes carry notes and statuses")
}

func (a *app) close() {
	if a.backend == nil {
		return
	}

	err := a.backend.Close()
	if err != nil {
		a.log.Warn("failed to close storage", zap.Error(err))
	}

	a.backend = nil
	a.store = nil
}

// resolveNote finds a note by full id or by its 1-based position.
func resolveNote(notes []flow.NodeNote, ref string) (flow.NodeNote, bool) {
	for _, n := range notes {
		if n.ID == ref {
			return n, true
		}
	}

	idx, err := strconv.Atoi(ref)
	if err != nil || idx < 1 || idx > len(notes) {
		return flow.NodeNote{}, false
	}

	return notes[idx-1], true
}
