package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/realtime"
	"github.com/mcoot/dicegame-go/internal/services/game"
)

// EventsHandler serves the persistent connection endpoints
type EventsHandler struct {
	hub        *realtime.Hub
	controller *game.Controller
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *realtime.Hub, controller *game.Controller) *EventsHandler {
	return &EventsHandler{
		hub:        hub,
		controller: controller,
	}
}

// WebSocket handles GET /api/v1/ws
func (h *EventsHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// Lobby handles GET /api/v1/events, a stream of lobby-wide updates
func (h *EventsHandler) Lobby(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeSSE(w, r, "", label(r))
}

// Game handles GET /api/v1/games/{id}/events, a stream of one game's updates
func (h *EventsHandler) Game(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	// Fail fast for unknown games before switching to a stream
	if _, err := h.controller.GetRoom(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.hub.ServeSSE(w, r, id, label(r))
}

func label(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("username"))
}
