package model

import "errors"

// Error classes. Every error below unwraps to exactly one of these.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrNotFound      = errors.New("not found")
	ErrStateConflict = errors.New("state conflict")
)

// classifiedError is a user-facing message tagged with its error class
type classifiedError struct {
	class   error
	message string
}

func (e *classifiedError) Error() string {
	return e.message
}

func (e *classifiedError) Unwrap() error {
	return e.class
}

func newError(class error, message string) error {
	return &classifiedError{class: class, message: message}
}

// Common errors used across the application
var (
	// Input errors
	ErrUsernameRequired = newError(ErrValidation, "username is required and must be a non-empty string")
	ErrUsernameTooShort = newError(ErrValidation, "invalid username, must be at least 3 characters long")
	ErrRoomIDRequired   = newError(ErrValidation, "gameId is required and must be a non-empty string")
	ErrActionRequired   = newError(ErrValidation, "action is required and must be a non-empty string")
	ErrInvalidAction    = newError(ErrValidation, "invalid action")
	ErrCategoryRequired = newError(ErrValidation, "category is required and must be a non-empty string")
	ErrInvalidCategory  = newError(ErrValidation, "invalid category")
	ErrInvalidDiceIndex = newError(ErrValidation, "diceIndexes must be an array of numbers between 0 and 4")
	ErrInvalidSides     = newError(ErrValidation, "sides must be a positive number")

	// Room errors
	ErrRoomNotFound = newError(ErrNotFound, "game not found")

	// Permission errors
	ErrNotHost     = newError(ErrAuthorization, "only the host can start the game")
	ErrNotYourTurn = newError(ErrAuthorization, "not your turn")

	// Phase errors
	ErrAlreadyInRoom       = newError(ErrStateConflict, "user already in the game")
	ErrAlreadyStarted      = newError(ErrStateConflict, "game has already started")
	ErrInsufficientPlayers = newError(ErrStateConflict, "at least 2 players are required to start the game")
	ErrNotStarted          = newError(ErrStateConflict, "game has not started yet")
	ErrGameOver            = newError(ErrStateConflict, "game is over")
	ErrNoRollsLeft         = newError(ErrStateConflict, "no rolls left")
	ErrMustRollFirst       = newError(ErrStateConflict, "must roll dice before holding")
	ErrAlreadyScored       = newError(ErrStateConflict, "category already scored")
)
