package state

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository for tests and dry runs.
type MemoryRepository struct {
	mu    sync.Mutex
	state State
	saves int

	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

// NewMemoryRepository returns a repository seeded with initial.
func NewMemoryRepository(initial State) *MemoryRepository {
	return &MemoryRepository{state: initial}
}

// Load returns a copy of the held state.
func (m *MemoryRepository) Load(_ context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	return &s, nil
}

// Save replaces the held state.
func (m *MemoryRepository) Save(_ context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.state = *s
	m.saves++
	return nil
}

// State returns a copy of the held state.
func (m *MemoryRepository) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SaveCount returns the number of successful saves.
func (m *MemoryRepository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
