package models

import (
	"sync"

	"github.com/google/uuid"
)

// Identity names a player: an opaque id plus an informational display
// name. All indexing by the rest of the engine is by Id.
type Identity struct {
	Id   uuid.UUID
	Name string
}

// IdentityMap assigns each newly seen player id a small dense integer
// index, register-on-first-sight. Index 0 is the not-found sentinel, so
// real indices start at 1. Safe for concurrent use.
type IdentityMap struct {
	mu      sync.RWMutex
	indices map[uuid.UUID]uint32
	ids     []uuid.UUID // ids[i-1] is the id registered at index i
}

// NewIdentityMap creates an empty IdentityMap.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{
		indices: make(map[uuid.UUID]uint32),
	}
}

// GetIndex returns the index registered for id, or 0 if none.
func (m *IdentityMap) GetIndex(id uuid.UUID) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indices[id]
}

// Register assigns a new index to id if it has none yet, and returns the
// (possibly pre-existing) index.
func (m *IdentityMap) Register(id uuid.UUID) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.indices[id]; ok {
		return idx
	}
	m.ids = append(m.ids, id)
	idx := uint32(len(m.ids))
	m.indices[id] = idx
	return idx
}

// Lookup returns the id registered at index, or uuid.Nil and false if the
// index is out of range.
func (m *IdentityMap) Lookup(index uint32) (uuid.UUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index == 0 || int(index) > len(m.ids) {
		return uuid.Nil, false
	}
	return m.ids[index-1], true
}

// Remove forgets id. It does not reclaim or reuse its index.
func (m *IdentityMap) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indices, id)
}

// Len returns the number of ids ever registered (not ids still live).
func (m *IdentityMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}
