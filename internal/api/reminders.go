package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/renewd/internal/engine"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// handleRunTick triggers an out-of-band reminder tick.
func (s *Server) handleRunTick(w http.ResponseWriter, r *http.Request) {
	if err := s.reminderSvc.RunTickNow(r.Context()); err != nil {
		if errors.Is(err, engine.ErrTickInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error("manual tick failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to run reminder tick")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTestChannel verifies a channel configuration supplied in the request
// body, without sending a reminder or writing a ledger entry.
func (s *Server) handleTestChannel(w http.ResponseWriter, r *http.Request) {
	ch := storage.Channel(chi.URLParam(r, "channel"))

	var prefs storage.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	if err := s.reminderSvc.TestChannel(r.Context(), ch, &prefs); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "channel configuration verified",
	})
}

// handleReminderStats returns the per-channel sent/failed aggregate for one
// user over the last 30 days.
func (s *Server) handleReminderStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stats, err := s.reminderSvc.Stats(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load reminder stats", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load reminder stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// handleListReminderLog returns recent reminder ledger entries.
// Accepts an optional ?limit=N query parameter (default 50, capped at 500).
func (s *Server) handleListReminderLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	entries, err := s.reminderSvc.ListLog(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list reminder log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reminder log")
		return
	}
	if entries == nil {
		entries = []storage.ReminderLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
