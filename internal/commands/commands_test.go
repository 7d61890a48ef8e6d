package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MacMoment/ac/internal/checks"
	"github.com/MacMoment/ac/internal/config"
	"github.com/MacMoment/ac/internal/state"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &Handler{
		Store:          state.NewHistoryStore(state.DefaultParams()),
		ConfigManager:  config.NewManager(path),
		Whitelist:      state.NewWhitelist(),
		MovementChecks: checks.NewMovementCheckSet(),
		CombatChecks:   checks.NewCombatCheckSet(),
	}
}

func TestStatusReportsTrackedPlayersAndEnabledChecks(t *testing.T) {
	h := newTestHandler(t)
	h.Store.GetOrCreatePlayer(uuid.New(), "steve")
	r := Router(h)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"trackedPlayers":1`) {
		t.Fatalf("expected trackedPlayers:1 in body, got %s", rec.Body.String())
	}
}

func TestExemptThenUnexemptRoundTrips(t *testing.T) {
	h := newTestHandler(t)
	r := Router(h)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/exempt/"+id.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, h.Whitelist.Contains(id), "expected id to be whitelisted after /exempt")

	req = httptest.NewRequest(http.MethodPost, "/unexempt/"+id.String(), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, h.Whitelist.Contains(id), "expected id to no longer be whitelisted after /unexempt")
}

func TestExemptWithInvalidIDReturnsBadRequest(t *testing.T) {
	h := newTestHandler(t)
	r := Router(h)

	req := httptest.NewRequest(http.MethodPost, "/exempt/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReloadReturnsOKOnValidConfig(t *testing.T) {
	h := newTestHandler(t)
	r := Router(h)

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
