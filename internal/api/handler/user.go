package handler

import (
	"net/http"

	"github.com/pizza-nz/backend-simulator/internal/api"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/models"
	"github.com/pizza-nz/backend-simulator/internal/session"
)

// UserHandler handles current-user lookup and user updates.
type UserHandler struct {
	session *session.Session
}

// NewUserHandler creates a new user handler.
func NewUserHandler(sess *session.Session) *UserHandler {
	return &UserHandler{session: sess}
}

// HandleMe handles requests for /api/user/me. An empty session yields a JSON
// null body rather than an error.
func (h *UserHandler) HandleMe(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodGet {
		return api.MethodNotAllowed()
	}
	return api.OK(h.session.CurrentUser())
}

// HandleLogout handles requests for /api/user/logout. Unlike DELETE /api/auth
// it clears the session without a token check and answers with an empty 200.
func (h *UserHandler) HandleLogout(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodPost {
		return api.MethodNotAllowed()
	}
	h.session.Clear()
	return api.NoContent()
}

// HandleUpdate handles requests for /api/user/{id}. The authorization check
// comes before any body validation.
func (h *UserHandler) HandleUpdate(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodPut {
		return api.MethodNotAllowed()
	}
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}

	var body models.UserUpdateRequest
	if err := req.DecodeJSON(&body); err != nil {
		return api.BadRequest("Invalid request body")
	}

	user, token, err := h.session.UpdateUser(body)
	if err != nil {
		return api.Conflict(err.Error())
	}

	return api.OK(models.AuthResponse{User: user, Token: token})
}
