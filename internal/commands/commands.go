// Package commands mounts the small admin HTTP surface described in
// spec.md §6 on a chi router: status, config reload, and per-player
// whitelist toggles. The whitelist itself lives in internal/state since
// the engine reads it on the ingest path; this package only mutates it.
package commands

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MacMoment/ac/internal/checks"
	"github.com/MacMoment/ac/internal/config"
	"github.com/MacMoment/ac/internal/state"
)

// Handler holds everything the admin endpoints need to read or mutate.
type Handler struct {
	Store          *state.HistoryStore
	ConfigManager  *config.Manager
	Whitelist      *state.Whitelist
	MovementChecks *checks.MovementCheckSet
	CombatChecks   *checks.CombatCheckSet
	Running        func() bool
}

// Router builds the chi router for the admin surface.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status", h.handleStatus)
	r.Post("/reload", h.handleReload)
	r.Post("/exempt/{id}", h.handleExempt)
	r.Post("/unexempt/{id}", h.handleUnexempt)

	return r
}

type statusResponse struct {
	Running             bool    `json:"running"`
	TrackedPlayers      int     `json:"trackedPlayers"`
	WhitelistedPlayers  int     `json:"whitelistedPlayers"`
	EnabledChecks       int     `json:"enabledChecks"`
	PunishmentThreshold float64 `json:"punishmentThreshold"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := h.ConfigManager.Current()
	enabled := 0
	for _, c := range h.MovementChecks.All() {
		if c.IsEnabled() {
			enabled++
		}
	}
	for _, c := range h.CombatChecks.All() {
		if c.IsEnabled() {
			enabled++
		}
	}

	resp := statusResponse{
		Running:             h.Running == nil || h.Running(),
		TrackedPlayers:      h.Store.PlayerCount(),
		WhitelistedPlayers:  len(h.Whitelist.Snapshot()),
		EnabledChecks:       enabled,
		PunishmentThreshold: cfg.Punishment.Threshold,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.ConfigManager.Reload(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "reloaded"})
}

func (h *Handler) handleExempt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid player id"})
		return
	}
	h.Whitelist.Add(id)
	writeJSON(w, http.StatusOK, map[string]string{"result": "exempted"})
}

func (h *Handler) handleUnexempt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid player id"})
		return
	}
	h.Whitelist.Remove(id)
	writeJSON(w, http.StatusOK, map[string]string{"result": "unexempted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
