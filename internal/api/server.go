// Package api exposes the REST surface over the reminder engine and its
// supporting stores.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaharia-lab/renewd/internal/service"
)

const errInvalidJSONBody = "invalid JSON body"

// Server holds all dependencies for the REST API handlers.
type Server struct {
	reminderSvc     service.ReminderService
	subscriptionSvc service.SubscriptionService
	preferenceSvc   service.PreferenceService
	logger          *slog.Logger
}

// New creates a new API Server backed by the provided services.
func New(reminderSvc service.ReminderService, subscriptionSvc service.SubscriptionService, preferenceSvc service.PreferenceService, logger *slog.Logger) *Server {
	return &Server{
		reminderSvc:     reminderSvc,
		subscriptionSvc: subscriptionSvc,
		preferenceSvc:   preferenceSvc,
		logger:          logger,
	}
}

// Router assembles the full HTTP handler: API routes, health check, and
// Prometheus metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", s.Mount)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Reminder engine surface
	r.Post("/reminders/run", s.handleRunTick)
	r.Get("/reminders/log", s.handleListReminderLog)
	r.Post("/channels/{channel}/test", s.handleTestChannel)
	r.Get("/users/{userID}/reminders/stats", s.handleReminderStats)

	// Subscriptions CRUD
	r.Get("/users/{userID}/subscriptions", s.handleListSubscriptions)
	r.Post("/users/{userID}/subscriptions", s.handleCreateSubscription)
	r.Get("/subscriptions/{id}", s.handleGetSubscription)
	r.Put("/subscriptions/{id}", s.handleUpdateSubscription)
	r.Delete("/subscriptions/{id}", s.handleDeleteSubscription)

	// Notification preferences
	r.Get("/users/{userID}/preferences", s.handleGetPreferences)
	r.Put("/users/{userID}/preferences", s.handlePutPreferences)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
