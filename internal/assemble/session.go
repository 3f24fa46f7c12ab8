package assemble

import (
	"sync"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/flow"
)

// Session keeps the assembled diagram of the selected variant current. It
// re-assembles fully whenever the store changes or the variant is switched.
type Session struct {
	mu         sync.Mutex
	collection dataset.Collection
	variant    flow.Variant
	state      annotation.State
	diagram    Diagram
	listeners  []func(Diagram)
	unsub      func()
}

// NewSession assembles variant from the store's current state and subscribes
// to further changes. Call Close to unsubscribe.
func NewSession(store *annotation.Store, collection dataset.Collection, variant flow.Variant) (*Session, error) {
	state := store.Snapshot()

	d, err := Assemble(variant, collection, state)
	if err != nil {
		return nil, err
	}

	s := &Session{
		collection: collection,
		variant:    variant,
		state:      state,
		diagram:    d,
	}

	s.unsub = store.Subscribe(s.onState)

	return s, nil
}

func (s *Session) onState(state annotation.State) {
	s.mu.Lock()

	d, err := Assemble(s.variant, s.collection, state)
	if err != nil {
		// The variant was validated when it was selected.
		s.mu.Unlock()

		return
	}

	s.state = state
	s.diagram = d
	listeners := append([]func(Diagram){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(d)
	}
}

// Diagram returns the current diagram.
func (s *Session) Diagram() Diagram {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.diagram
}

// Variant returns the selected variant.
func (s *Session) Variant() flow.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.variant
}

// SetVariant switches to v, replacing every node and edge.
func (s *Session) SetVariant(v flow.Variant) error {
	s.mu.Lock()

	d, err := Assemble(v, s.collection, s.state)
	if err != nil {
		s.mu.Unlock()

		return err
	}

	s.variant = v
	s.diagram = d
	listeners := append([]func(Diagram){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(d)
	}

	return nil
}

// OnChange registers fn to receive every re-assembled diagram.
func (s *Session) OnChange(fn func(Diagram)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Close stops following the store.
func (s *Session) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}
