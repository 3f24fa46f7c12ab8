// Package annotation holds the user's annotations of diagram nodes (notes,
// status overrides and position overrides) and persists them as a single
// versioned record.
package annotation

import (
	"maps"
	"time"

	"github.com/calvinalkan/flowmap/internal/flow"
)

// StorageKey is the backend key of the annotation record.
const StorageKey = "hubspot-flow-state"

// State is the single unit of durable annotation state.
//
// A State handed out by the package is never modified afterwards; updates
// produce a new State.
type State struct {
	Notes         map[string][]flow.NodeNote
	Statuses      map[string]flow.NodeStatus
	Positions     map[string]flow.Position
	LayoutVersion int
	LastUpdated   time.Time
}

// NewState returns an empty state stamped with layoutVersion and now.
func NewState(layoutVersion int, now time.Time) State {
	return State{
		Notes:         make(map[string][]flow.NodeNote),
		Statuses:      make(map[string]flow.NodeStatus),
		Positions:     make(map[string]flow.Position),
		LayoutVersion: layoutVersion,
		LastUpdated:   now,
	}
}

// Clone returns a deep copy of s. Nil maps become empty maps.
func (s State) Clone() State {
	out := State{
		Notes:         make(map[string][]flow.NodeNote, len(s.Notes)),
		Statuses:      make(map[string]flow.NodeStatus, len(s.Statuses)),
		Positions:     make(map[string]flow.Position, len(s.Positions)),
		LayoutVersion: s.LayoutVersion,
		LastUpdated:   s.LastUpdated,
	}

	for id, notes := range s.Notes {
		out.Notes[id] = cloneNotes(notes)
	}

	maps.Copy(out.Statuses, s.Statuses)
	maps.Copy(out.Positions, s.Positions)

	return out
}

// NoteCount returns the total number of notes across all nodes.
func (s State) NoteCount() int {
	n := 0
	for _, notes := range s.Notes {
		n += len(notes)
	}

	return n
}

// migrate brings s to the current layout version. Positions recorded under an
// older layout are dropped because node ids may now sit elsewhere; notes and
// statuses are kept. A newer version is left untouched.
func migrate(s State, current int) (State, bool) {
	if s.LayoutVersion >= current {
		return s, false
	}

	s.Positions = make(map[string]flow.Position)
	s.LayoutVersion = current

	return s, true
}

func cloneNotes(notes []flow.NodeNote) []flow.NodeNote {
	out := make([]flow.NodeNote, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}

	return out
}
