package handler

import (
	"net/http"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/api/request"
	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/model"
)

// DiceHandler rolls standalone dice outside of any game
type DiceHandler struct {
	random random.Random
}

// NewDiceHandler creates a new dice handler
func NewDiceHandler(random random.Random) *DiceHandler {
	return &DiceHandler{random: random}
}

// Roll handles POST /api/v1/dice/roll
func (h *DiceHandler) Roll(w http.ResponseWriter, r *http.Request) {
	var req request.RollRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if req.Sides < 1 {
		apierr.WriteError(w, model.ErrInvalidSides)
		return
	}

	response.JSON(w, http.StatusOK, response.RollResponse{Result: h.random.Intn(req.Sides) + 1})
}
