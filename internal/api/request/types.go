package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/model"
)

// maxBodyBytes caps request bodies; every request here is a handful of fields
const maxBodyBytes = 64 << 10

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Username string `json:"username"`
}

// GameActionRequest is the request body for applying an action to a game
type GameActionRequest struct {
	GameID      string `json:"gameId"`
	Username    string `json:"username"`
	Action      string `json:"action"`
	Category    string `json:"category,omitempty"`
	DiceIndexes []int  `json:"diceIndexes,omitempty"`
}

// ToAction converts the request to a model.Action. The action is validated
// by the game controller.
func (r GameActionRequest) ToAction() model.Action {
	return model.Action{
		Kind:        model.ActionKind(strings.TrimSpace(r.Action)),
		Category:    r.Category,
		DiceIndexes: r.DiceIndexes,
	}
}

// AuthRequest is the request body for the username check
type AuthRequest struct {
	Username string `json:"username"`
}

// RollRequest is the request body for a single die roll
type RollRequest struct {
	Sides int `json:"sides"`
}

// Decode reads a JSON body into dst, mapping malformed input to a
// validation error
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field == "diceIndexes":
			return model.ErrInvalidDiceIndex
		case errors.As(err, &typeErr):
			return apierr.NewInvalidRequestError(typeErr.Field + " has the wrong type")
		case errors.Is(err, io.EOF):
			return apierr.NewInvalidRequestError("request body is required")
		default:
			return apierr.NewInvalidRequestError("invalid JSON body")
		}
	}
	return nil
}
