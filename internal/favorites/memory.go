package favorites

import (
	"context"
	"sync"
)

// MemoryStore implements Store using in-memory maps
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]Set
}

// NewMemoryStore creates a new in-memory favorites store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets: make(map[string]Set),
	}
}

// Get returns a copy so callers can never mutate the stored set.
func (m *MemoryStore) Get(ctx context.Context, ownerID string) (Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(Set, len(m.sets[ownerID]))
	for id := range m.sets[ownerID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *MemoryStore) Add(ctx context.Context, ownerID, stationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[ownerID]
	if !ok {
		set = make(Set)
		m.sets[ownerID] = set
	}
	set[stationID] = struct{}{}
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, ownerID, stationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sets[ownerID], stationID)
	if len(m.sets[ownerID]) == 0 {
		delete(m.sets, ownerID)
	}
	return nil
}
