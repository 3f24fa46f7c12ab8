package storage

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process [Backend]. Failures can be injected for tests.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool

	// GetErr and SetErr, when non-nil, are returned by every Get or Set.
	GetErr error
	SetErr error

	writes int
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	err := validateKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.SetErr != nil {
		return m.SetErr
	}

	m.data[key] = slices.Clone(value)
	m.writes++

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.data, key)

	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

// Writes returns the number of successful Set calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes
}
