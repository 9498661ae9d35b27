package handler

import (
	"net/http"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/services/game"
	"github.com/mcoot/dicegame-go/internal/services/registry"
)

// HealthHandler reports liveness and checks storage is reachable
type HealthHandler struct {
	controller *game.Controller
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller *game.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.controller.ListRooms(r.Context(), registry.ListFilter{IncludeStarted: true})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok", Rooms: len(rooms)})
}
