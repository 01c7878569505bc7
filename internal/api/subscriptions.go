package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/renewd/internal/service"
	"github.com/shaharia-lab/renewd/internal/storage"
)

// handleListSubscriptions returns all subscriptions for a user.
func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	subs, err := s.subscriptionSvc.List(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []*storage.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// handleCreateSubscription creates a subscription for a user.
func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var sub storage.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}
	sub.UserID = chi.URLParam(r, "userID")

	if err := s.subscriptionSvc.Create(r.Context(), &sub); err != nil {
		s.writeServiceError(w, err, "failed to create subscription")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// handleGetSubscription returns one subscription by id.
func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subscriptionSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to load subscription")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// handleUpdateSubscription replaces one subscription by id.
func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var sub storage.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}
	sub.ID = chi.URLParam(r, "id")

	if err := s.subscriptionSvc.Update(r.Context(), &sub); err != nil {
		s.writeServiceError(w, err, "failed to update subscription")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// handleDeleteSubscription removes one subscription by id.
func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := s.subscriptionSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, err, "failed to delete subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGetPreferences returns a user's notification preferences with
// credentials masked.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.preferenceSvc.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, err, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// handlePutPreferences creates or replaces a user's notification preferences.
func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs storage.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}
	prefs.UserID = chi.URLParam(r, "userID")

	if err := s.preferenceSvc.Put(r.Context(), &prefs); err != nil {
		s.writeServiceError(w, err, "failed to save preferences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// writeServiceError maps service sentinel errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
