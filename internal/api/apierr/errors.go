package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/dicegame-go/internal/model"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidAction       = "INVALID_ACTION"
	CodeInvalidCategory     = "INVALID_CATEGORY"
	CodeInvalidDiceIndex    = "INVALID_DICE_INDEX"
	CodeInvalidUsername     = "INVALID_USERNAME"
	CodeNotHost             = "NOT_HOST"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeAlreadyInGame       = "ALREADY_IN_GAME"
	CodeAlreadyStarted      = "ALREADY_STARTED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeNotStarted          = "NOT_STARTED"
	CodeGameOver            = "GAME_OVER"
	CodeNoRollsLeft         = "NO_ROLLS_LEFT"
	CodeMustRollFirst       = "MUST_ROLL_FIRST"
	CodeAlreadyScored       = "ALREADY_SCORED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "INVALID_STATE"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// codes gives specific errors a stable code; anything not listed falls back
// to its class
var codes = []struct {
	err  error
	code string
}{
	{model.ErrUsernameRequired, CodeInvalidUsername},
	{model.ErrUsernameTooShort, CodeInvalidUsername},
	{model.ErrActionRequired, CodeInvalidAction},
	{model.ErrInvalidAction, CodeInvalidAction},
	{model.ErrCategoryRequired, CodeInvalidCategory},
	{model.ErrInvalidCategory, CodeInvalidCategory},
	{model.ErrInvalidDiceIndex, CodeInvalidDiceIndex},
	{model.ErrRoomNotFound, CodeGameNotFound},
	{model.ErrNotHost, CodeNotHost},
	{model.ErrNotYourTurn, CodeNotYourTurn},
	{model.ErrAlreadyInRoom, CodeAlreadyInGame},
	{model.ErrAlreadyStarted, CodeAlreadyStarted},
	{model.ErrInsufficientPlayers, CodeInsufficientPlayers},
	{model.ErrNotStarted, CodeNotStarted},
	{model.ErrGameOver, CodeGameOver},
	{model.ErrNoRollsLeft, CodeNoRollsLeft},
	{model.ErrMustRollFirst, CodeMustRollFirst},
	{model.ErrAlreadyScored, CodeAlreadyScored},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	code := ""
	for _, c := range codes {
		if errors.Is(err, c.err) {
			code = c.code
			break
		}
	}

	// Map error classes
	switch {
	case errors.Is(err, model.ErrValidation):
		return newHTTPError(http.StatusBadRequest, orDefault(code, CodeInvalidRequest), err.Error())
	case errors.Is(err, model.ErrAuthorization):
		return newHTTPError(http.StatusForbidden, orDefault(code, CodeForbidden), err.Error())
	case errors.Is(err, model.ErrNotFound):
		return newHTTPError(http.StatusNotFound, orDefault(code, CodeNotFound), err.Error())
	case errors.Is(err, model.ErrStateConflict):
		return newHTTPError(http.StatusBadRequest, orDefault(code, CodeConflict), err.Error())
	default:
		return newHTTPError(http.StatusInternalServerError, CodeInternalError, "Internal server error")
	}
}

func newHTTPError(status int, code, message string) *httpError {
	return &httpError{status: status, body: ErrorResponse{Error: message, Code: code}}
}

func orDefault(code, fallback string) string {
	if code == "" {
		return fallback
	}
	return code
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, CodeInvalidRequest, message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return newHTTPError(http.StatusInternalServerError, CodeInternalError, "Internal server error")
}

// NewRouteNotFoundError is returned for paths no route matches
func NewRouteNotFoundError() error {
	return newHTTPError(http.StatusNotFound, CodeNotFound, "not found")
}

// NewMethodNotAllowedError is returned when a route exists but not for the method
func NewMethodNotAllowedError() error {
	return newHTTPError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
}
