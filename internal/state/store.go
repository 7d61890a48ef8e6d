package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/MacMoment/ac/internal/models"
)

// HistoryStore owns every live player's movement and combat context. The
// map itself is concurrency-safe; mutation of a given context's internals
// is serialized by that player's single ingest owner (see the
// concurrency model in SPEC_FULL.md §5).
//
// The dense "arena+index" layout spec.md §9 describes as optional is not
// used for the variable-capacity history buffers here (see DESIGN.md);
// IdentityMap is kept so callers that do want a stable small integer per
// player — e.g. for a future cache-line-padded counters arena — have one.
type HistoryStore struct {
	mu       sync.RWMutex
	players  map[uuid.UUID]*PlayerContext
	combats  map[uuid.UUID]*CombatContext
	identities *models.IdentityMap

	paramsMu sync.RWMutex
	params   Params
}

// NewHistoryStore creates an empty store using the given params for newly
// created contexts.
func NewHistoryStore(params Params) *HistoryStore {
	return &HistoryStore{
		players:    make(map[uuid.UUID]*PlayerContext),
		combats:    make(map[uuid.UUID]*CombatContext),
		identities: models.NewIdentityMap(),
		params:     params,
	}
}

// SetParams updates the params applied to contexts created from now on.
// Existing contexts are unaffected (matches reload semantics: live
// history buffers are not resized out from under the ingest owner).
func (s *HistoryStore) SetParams(params Params) {
	s.paramsMu.Lock()
	s.params = params
	s.paramsMu.Unlock()
}

func (s *HistoryStore) currentParams() Params {
	s.paramsMu.RLock()
	defer s.paramsMu.RUnlock()
	return s.params
}

// GetOrCreatePlayer returns the existing PlayerContext for id, or
// constructs and registers one using the current params.
func (s *HistoryStore) GetOrCreatePlayer(id uuid.UUID, name string) *PlayerContext {
	s.mu.RLock()
	ctx, ok := s.players[id]
	s.mu.RUnlock()
	if ok {
		return ctx
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx, ok := s.players[id]; ok {
		return ctx
	}
	s.identities.Register(id)
	ctx = NewPlayerContext(models.Identity{Id: id, Name: name}, s.currentParams())
	s.players[id] = ctx
	return ctx
}

// GetPlayer returns the context for id and true, or nil and false.
func (s *HistoryStore) GetPlayer(id uuid.UUID) (*PlayerContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.players[id]
	return ctx, ok
}

// RemovePlayer destroys the context for id, if any.
func (s *HistoryStore) RemovePlayer(id uuid.UUID) {
	s.mu.Lock()
	delete(s.players, id)
	s.mu.Unlock()
}

// GetOrCreateCombat returns the existing CombatContext for id, or
// constructs and registers one using the current params.
func (s *HistoryStore) GetOrCreateCombat(id uuid.UUID, name string) *CombatContext {
	s.mu.RLock()
	ctx, ok := s.combats[id]
	s.mu.RUnlock()
	if ok {
		return ctx
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx, ok := s.combats[id]; ok {
		return ctx
	}
	ctx = NewCombatContext(models.Identity{Id: id, Name: name}, s.currentParams())
	s.combats[id] = ctx
	return ctx
}

// GetCombat returns the context for id and true, or nil and false.
func (s *HistoryStore) GetCombat(id uuid.UUID) (*CombatContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.combats[id]
	return ctx, ok
}

// RemoveCombat destroys the context for id, if any.
func (s *HistoryStore) RemoveCombat(id uuid.UUID) {
	s.mu.Lock()
	delete(s.combats, id)
	s.mu.Unlock()
}

// Remove destroys both the movement and combat context for id. Called on
// player quit.
func (s *HistoryStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.players, id)
	delete(s.combats, id)
	s.mu.Unlock()
}

// Clear removes every tracked player.
func (s *HistoryStore) Clear() {
	s.mu.Lock()
	s.players = make(map[uuid.UUID]*PlayerContext)
	s.combats = make(map[uuid.UUID]*CombatContext)
	s.mu.Unlock()
}

// PlayerCount returns the number of currently tracked players.
func (s *HistoryStore) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
