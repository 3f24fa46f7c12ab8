package annotation

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/flow"
	"github.com/calvinalkan/flowmap/internal/storage"
)

// Catalog reports which node ids annotation operations may target.
// [dataset.Catalog] implements it.
type Catalog interface {
	Positionable(id string) bool
	Annotatable(id string) bool
}

// NoteUpdate lists the fields of a note to replace. Nil Content leaves the
// content alone; Tags are only applied when TagsSet is true, so an update can
// clear all tags.
type NoteUpdate struct {
	Content *string
	Tags    []string
	TagsSet bool
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for storage failures and dropped entries.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how note ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithCatalog restricts operations to known nodes. Without a catalog every id
// is accepted.
func WithCatalog(c Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

// Store owns the annotation state of one session and is its only writer.
//
// Every mutation replaces the current state with a new one and writes it to
// the backend before returning. Write failures are logged and otherwise
// ignored: the in-memory state stays authoritative for the session.
//
// A Store is safe for concurrent use. Mutations are serialized from reading
// the current state to persisting the next one, so none is lost and the
// backend sees them in order. Subscribers run after the write, outside the
// store's locks.
type Store struct {
	// writeMu serializes mutations; mu guards state and subs.
	writeMu sync.Mutex
	mu      sync.Mutex

	backend       storage.Backend
	log           *zap.Logger
	now           func() time.Time
	newID         func() string
	catalog       Catalog
	layoutVersion int

	state State

	subs    map[int]func(State)
	nextSub int
}

// Open creates a store on backend and loads the persisted record.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend:       backend,
		log:           zap.NewNop(),
		now:           time.Now,
		newID:         newNoteID,
		layoutVersion: dataset.LayoutVersion,
		subs:          make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Load(ctx)

	return s
}

// newNoteID returns a time-ordered UUID so note ids sort by creation.
func newNoteID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

// Load reads the persisted record and makes it the current state, notifying
// subscribers. An absent or unreadable record yields a fresh state. A record
// from an older layout is migrated and written back.
func (s *Store) Load(ctx context.Context) State {
	s.writeMu.Lock()

	st, migrated := s.read(ctx)

	s.mu.Lock()
	s.state = st
	subs := s.subscribers()
	s.mu.Unlock()

	if migrated {
		s.write(ctx, st)
	}

	s.writeMu.Unlock()

	for _, fn := range subs {
		fn(st.Clone())
	}

	return st.Clone()
}

func (s *Store) read(ctx context.Context) (State, bool) {
	fresh := NewState(s.layoutVersion, s.now())

	data, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Debug("no annotation record, starting fresh", zap.String("key", StorageKey))
		} else {
			s.log.Warn("failed to load annotation record", zap.String("key", StorageKey), zap.Error(err))
		}

		return fresh, false
	}

	st, dropped, err := Decode(data)
	if err != nil {
		s.log.Warn("discarding unreadable annotation record", zap.String("key", StorageKey), zap.Error(err))

		return fresh, false
	}

	if len(dropped) > 0 {
		s.log.Warn("dropped malformed annotation entries",
			zap.String("key", StorageKey), zap.Strings("entries", dropped))
	}

	if st.LastUpdated.IsZero() {
		st.LastUpdated = fresh.LastUpdated
	}

	from := st.LayoutVersion

	st, migrated := migrate(st, s.layoutVersion)
	if migrated {
		s.log.Info("layout changed, discarded position overrides",
			zap.Int("from", from), zap.Int("to", s.layoutVersion))
	}

	return st, migrated
}

// Save makes st the current state and writes the full record, stamping
// LastUpdated. Every mutation saves this way; Save itself is for callers that
// build a whole state, such as a restored backup.
func (s *Store) Save(ctx context.Context, st State) State {
	st = st.Clone()

	next, _ := s.mutate(ctx, func(State) (State, bool) { return st, true })

	return next
}

// Import replaces the current state with st after applying the same layout
// migration as [Store.Load], then persists it.
func (s *Store) Import(ctx context.Context, st State) State {
	st, _ = migrate(st.Clone(), s.layoutVersion)

	next, _ := s.mutate(ctx, func(State) (State, bool) { return st, true })

	return next
}

// Reset discards all notes, statuses and positions and persists the empty
// state.
func (s *Store) Reset(ctx context.Context) State {
	fresh := NewState(s.layoutVersion, s.now())

	next, _ := s.mutate(ctx, func(State) (State, bool) { return fresh, true })

	return next
}

// AddNote appends a note to node. Content is trimmed; blank content and
// unknown nodes are ignored and reported with ok=false.
func (s *Store) AddNote(ctx context.Context, node, content string, tags []string) (flow.NodeNote, bool) {
	content = strings.TrimSpace(content)
	if content == "" || !s.annotatable(node) {
		return flow.NodeNote{}, false
	}

	note := flow.NodeNote{
		ID:        s.newID(),
		Content:   content,
		CreatedAt: s.now(),
		Tags:      normalizeTags(tags),
	}

	s.mutate(ctx, func(next State) (State, bool) {
		next.Notes = maps.Clone(next.Notes)
		next.Notes[node] = append(slices.Clone(next.Notes[node]), note)

		return next, true
	})

	return note.Clone(), true
}

// UpdateNote applies u to the note noteID of node. It reports false when the
// note does not exist or the new content would be blank.
func (s *Store) UpdateNote(ctx context.Context, node, noteID string, u NoteUpdate) bool {
	var content string

	if u.Content != nil {
		content = strings.TrimSpace(*u.Content)
		if content == "" {
			return false
		}
	}

	_, ok := s.mutate(ctx, func(next State) (State, bool) {
		idx := indexOfNote(next.Notes[node], noteID)
		if idx < 0 {
			return next, false
		}

		updated := next.Notes[node][idx].Clone()

		if u.Content != nil {
			updated.Content = content
		}

		if u.TagsSet {
			updated.Tags = normalizeTags(u.Tags)
		}

		next.Notes = maps.Clone(next.Notes)
		next.Notes[node] = slices.Clone(next.Notes[node])
		next.Notes[node][idx] = updated

		return next, true
	})

	return ok
}

// DeleteNote removes the note noteID of node, reporting whether it existed.
func (s *Store) DeleteNote(ctx context.Context, node, noteID string) bool {
	_, ok := s.mutate(ctx, func(next State) (State, bool) {
		idx := indexOfNote(next.Notes[node], noteID)
		if idx < 0 {
			return next, false
		}

		next.Notes = maps.Clone(next.Notes)

		remaining := slices.Delete(slices.Clone(next.Notes[node]), idx, idx+1)
		if len(remaining) == 0 {
			delete(next.Notes, node)
		} else {
			next.Notes[node] = remaining
		}

		return next, true
	})

	return ok
}

// SetStatus overrides the status of a content node. It reports false for
// invalid statuses and for nodes that take no status.
func (s *Store) SetStatus(ctx context.Context, node string, status flow.NodeStatus) bool {
	if !status.Valid() || !s.annotatable(node) {
		return false
	}

	s.mutate(ctx, func(next State) (State, bool) {
		next.Statuses = maps.Clone(next.Statuses)
		next.Statuses[node] = status

		return next, true
	})

	return true
}

// SetPosition overrides the position of any known node.
func (s *Store) SetPosition(ctx context.Context, node string, pos flow.Position) bool {
	if s.catalog != nil && !s.catalog.Positionable(node) {
		return false
	}

	s.mutate(ctx, func(next State) (State, bool) {
		next.Positions = maps.Clone(next.Positions)
		next.Positions[node] = pos

		return next, true
	})

	return true
}

// Notes returns a copy of the notes of node in insertion order. The result is
// empty, never nil, when the node has none.
func (s *Store) Notes(node string) []flow.NodeNote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneNotes(s.state.Notes[node])
}

// Note returns a single note of node.
func (s *Store) Note(node, noteID string) (flow.NodeNote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.state.Notes[node]

	idx := indexOfNote(notes, noteID)
	if idx < 0 {
		return flow.NodeNote{}, false
	}

	return notes[idx].Clone(), true
}

// Status returns the status override of node.
func (s *Store) Status(node string) (flow.NodeStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state.Statuses[node]

	return st, ok
}

// Position returns the position override of node.
func (s *Store) Position(node string) (flow.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.Positions[node]

	return p, ok
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs, id)
	}
}

// mutate derives the next state from the current one with change, stamps it,
// makes it current and persists it, all under writeMu. change must not modify
// the maps of the state it is given. It reports false to leave the state
// untouched; nothing is written then.
func (s *Store) mutate(ctx context.Context, change func(State) (State, bool)) (State, bool) {
	s.writeMu.Lock()

	s.mu.Lock()
	next, ok := change(s.state)
	s.mu.Unlock()

	if !ok {
		s.writeMu.Unlock()

		return State{}, false
	}

	next.LastUpdated = s.now()

	s.mu.Lock()
	s.state = next
	subs := s.subscribers()
	s.mu.Unlock()

	s.write(ctx, next)
	s.writeMu.Unlock()

	for _, fn := range subs {
		fn(next.Clone())
	}

	return next.Clone(), true
}

// subscribers returns the callbacks in subscription order. Callers hold mu.
func (s *Store) subscribers() []func(State) {
	subs := make([]func(State), 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		subs = append(subs, s.subs[id])
	}

	return subs
}

func (s *Store) write(ctx context.Context, st State) {
	data, err := Encode(st)
	if err != nil {
		s.log.Error("failed to encode annotation record", zap.Error(err))

		return
	}

	err = s.backend.Set(ctx, StorageKey, data)
	if err != nil {
		s.log.Error("failed to save annotation record", zap.String("key", StorageKey), zap.Error(err))
	}
}

func (s *Store) annotatable(node string) bool {
	return s.catalog == nil || s.catalog.Annotatable(node)
}

func indexOfNote(notes []flow.NodeNote, noteID string) int {
	return slices.IndexFunc(notes, func(n flow.NodeNote) bool { return n.ID == noteID })
}

// normalizeTags trims tags and drops blanks and duplicates, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}

	return out
}
