package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/api/request"
	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/game"
	"github.com/mcoot/dicegame-go/internal/services/registry"
)

// GameHandler handles the games collection endpoints
type GameHandler struct {
	controller  *game.Controller
	showStarted bool
}

// NewGameHandler creates a new game handler. showStarted makes the default
// listing include games that have already begun.
func NewGameHandler(controller *game.Controller, showStarted bool) *GameHandler {
	return &GameHandler{
		controller:  controller,
		showStarted: showStarted,
	}
}

// List handles GET /api/v1/games. With ?gameId=X it returns that game instead.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if id := query.Get("gameId"); id != "" {
		h.writeGame(w, r, model.RoomID(id))
		return
	}

	filter := registry.ListFilter{IncludeStarted: h.showStarted}
	if all := query.Get("all"); all != "" {
		include, err := strconv.ParseBool(all)
		if err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("all must be a boolean"))
			return
		}
		filter.IncludeStarted = include
	}

	rooms, err := h.controller.ListRooms(r.Context(), filter)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(rooms))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeGame(w, r, model.RoomID(mux.Vars(r)["id"]))
}

func (h *GameHandler) writeGame(w http.ResponseWriter, r *http.Request, id model.RoomID) {
	room, err := h.controller.GetRoom(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(room))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	room, err := h.controller.CreateRoom(r.Context(), req.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(room))
}

// Action handles PUT /api/v1/games
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req request.GameActionRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	room, err := h.controller.Apply(r.Context(), model.RoomID(req.GameID), req.Username, req.ToAction())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(room))
}
