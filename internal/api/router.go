package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoretracker/internal/api/handler"
	"github.com/mcoot/scoretracker/internal/api/middleware"
	"github.com/mcoot/scoretracker/internal/api/request"
	"github.com/mcoot/scoretracker/internal/api/sse"
	"github.com/mcoot/scoretracker/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	Hub               *sse.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	decoder := request.NewDecoder()
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	playerHandler := handler.NewPlayerHandler(cfg.SessionController, decoder)
	rulesHandler := handler.NewRulesHandler(cfg.SessionController, decoder)
	roundHandler := handler.NewRoundHandler(cfg.SessionController, decoder)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Session state and stage transitions
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session/proceed", sessionHandler.Proceed).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", sessionHandler.Leaderboard).Methods(http.MethodGet)

	// Roster
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}", playerHandler.Rename).Methods(http.MethodPatch)
	api.HandleFunc("/players/{id}", playerHandler.Remove).Methods(http.MethodDelete)

	// Scoring rules
	api.HandleFunc("/rules", rulesHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rules", rulesHandler.Save).Methods(http.MethodPut)
	api.HandleFunc("/rules/defaults", rulesHandler.Defaults).Methods(http.MethodGet)

	// Rounds
	api.HandleFunc("/rounds", roundHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rounds", roundHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/rounds/edit", roundHandler.CancelEdit).Methods(http.MethodDelete)
	api.HandleFunc("/rounds/{id}", roundHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rounds/{id}", roundHandler.SaveEdit).Methods(http.MethodPut)
	api.HandleFunc("/rounds/{id}/edit", roundHandler.RequestEdit).Methods(http.MethodPost)

	// Destructive actions need a request followed by a confirmation
	api.HandleFunc("/reset", sessionHandler.RequestReset).Methods(http.MethodPost)
	api.HandleFunc("/reset/confirm", sessionHandler.ConfirmReset).Methods(http.MethodPost)
	api.HandleFunc("/clear", sessionHandler.RequestClear).Methods(http.MethodPost)
	api.HandleFunc("/clear/confirm", sessionHandler.ConfirmClear).Methods(http.MethodPost)
	api.HandleFunc("/confirmation", sessionHandler.CancelPending).Methods(http.MethodDelete)

	// Live event stream
	if cfg.Hub != nil {
		api.Handle("/events", cfg.Hub).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
