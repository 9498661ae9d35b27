package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/dicegame-go/internal/api/apierr"
	"github.com/mcoot/dicegame-go/internal/api/request"
	"github.com/mcoot/dicegame-go/internal/api/response"
	"github.com/mcoot/dicegame-go/internal/model"
)

// MinUsernameLength is the shortest username the auth check accepts
const MinUsernameLength = 3

// Auth handles POST /api/v1/auth. Identity is a bare username; this only
// checks that it is acceptable.
func Auth(w http.ResponseWriter, r *http.Request) {
	var req request.AuthRequest
	if err := request.Decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		apierr.WriteError(w, model.ErrUsernameRequired)
		return
	}
	if len([]rune(username)) < MinUsernameLength {
		apierr.WriteError(w, model.ErrUsernameTooShort)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{Success: true, Username: username})
}
