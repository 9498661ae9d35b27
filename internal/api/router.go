package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/api/handler"
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/middleware"
	"github.com/mcoot/dicegame-go/internal/realtime"
	"github.com/mcoot/dicegame-go/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller *game.Controller
	Hub        *realtime.Hub
	Random     random.Random

	// ShowStarted includes started games in the default game listing
	ShowStarted bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.Controller, cfg.ShowStarted)
	diceHandler := handler.NewDiceHandler(cfg.Random)
	healthHandler := handler.NewHealthHandler(cfg.Controller)
	eventsHandler := handler.NewEventsHandler(cfg.Hub, cfg.Controller)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Games
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.Action).Methods(http.MethodPut)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)

	// Persistent connections
	api.HandleFunc("/events", eventsHandler.Lobby).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/events", eventsHandler.Game).Methods(http.MethodGet)
	api.HandleFunc("/ws", eventsHandler.WebSocket).Methods(http.MethodGet)

	// Stateless helpers
	api.HandleFunc("/auth", handler.Auth).Methods(http.MethodPost)
	api.HandleFunc("/dice/roll", diceHandler.Roll).Methods(http.MethodPost)
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewRouteNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	return r
}

// apiPanicHandler returns a JSON 500 in the standard error shape
func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
