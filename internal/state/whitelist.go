package state

import (
	"sync"

	"github.com/google/uuid"
)

// Whitelist is a concurrent set of exempt player ids. Admin commands
// mutate it while the ingest loop reads it on every event; reads never
// block writes for long since the critical section is a single map
// operation.
type Whitelist struct {
	mu  sync.RWMutex
	ids map[uuid.UUID]struct{}
}

// NewWhitelist creates a Whitelist seeded with the given ids.
func NewWhitelist(ids ...uuid.UUID) *Whitelist {
	w := &Whitelist{ids: make(map[uuid.UUID]struct{}, len(ids))}
	for _, id := range ids {
		w.ids[id] = struct{}{}
	}
	return w
}

// Contains reports whether id is whitelisted.
func (w *Whitelist) Contains(id uuid.UUID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.ids[id]
	return ok
}

// Add whitelists id.
func (w *Whitelist) Add(id uuid.UUID) {
	w.mu.Lock()
	w.ids[id] = struct{}{}
	w.mu.Unlock()
}

// Remove un-whitelists id.
func (w *Whitelist) Remove(id uuid.UUID) {
	w.mu.Lock()
	delete(w.ids, id)
	w.mu.Unlock()
}

// Snapshot returns every currently whitelisted id.
func (w *Whitelist) Snapshot() []uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(w.ids))
	for id := range w.ids {
		out = append(out, id)
	}
	return out
}
