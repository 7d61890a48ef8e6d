package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestIdentityMapRegisterIsIdempotent(t *testing.T) {
	m := NewIdentityMap()
	id := uuid.New()
	idx1 := m.Register(id)
	idx2 := m.Register(id)
	if idx1 != idx2 {
		t.Fatalf("expected stable index, got %d then %d", idx1, idx2)
	}
	if idx1 == 0 {
		t.Fatal("registered index should never be the sentinel 0")
	}
}

func TestIdentityMapUnknownIdReturnsSentinel(t *testing.T) {
	m := NewIdentityMap()
	if got := m.GetIndex(uuid.New()); got != 0 {
		t.Fatalf("expected sentinel 0 for unknown id, got %d", got)
	}
}

func TestIdentityMapLookupRoundTrip(t *testing.T) {
	m := NewIdentityMap()
	id := uuid.New()
	idx := m.Register(id)
	got, ok := m.Lookup(idx)
	if !ok || got != id {
		t.Fatalf("Lookup(%d) = %v,%v want %v,true", idx, got, ok, id)
	}
}
