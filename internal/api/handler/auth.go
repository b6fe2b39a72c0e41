package handler

import (
	"errors"
	"net/http"

	"github.com/pizza-nz/backend-simulator/internal/api"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/models"
	"github.com/pizza-nz/backend-simulator/internal/session"
)

// AuthHandler handles login, registration, and logout.
type AuthHandler struct {
	session *session.Session
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sess *session.Session) *AuthHandler {
	return &AuthHandler{session: sess}
}

// HandleAuth handles requests for /api/auth.
func (h *AuthHandler) HandleAuth(req *dispatch.Request) dispatch.Response {
	switch req.Method {
	case http.MethodPut:
		return h.login(req)
	case http.MethodPost:
		return h.register(req)
	case http.MethodDelete:
		return h.logout(req)
	default:
		return api.MethodNotAllowed()
	}
}

// login authenticates an existing user.
func (h *AuthHandler) login(req *dispatch.Request) dispatch.Response {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := req.DecodeJSON(&body); err != nil {
		return api.BadRequest("Invalid request body")
	}

	user, token, err := h.session.Login(body.Email, body.Password)
	if err != nil {
		return api.Unauthorized()
	}

	return api.OK(models.AuthResponse{User: user, Token: token})
}

// register creates a new diner account and logs it in.
func (h *AuthHandler) register(req *dispatch.Request) dispatch.Response {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := req.DecodeJSON(&body); err != nil {
		return api.BadRequest("Invalid request body")
	}

	user, token, err := h.session.Register(body.Name, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, session.ErrConflict) {
			return api.Conflict("User already exists")
		}
		return api.BadRequest(err.Error())
	}

	return api.OK(models.AuthResponse{User: user, Token: token})
}

// logout clears the session. A wrong token fails and leaves the session
// active.
func (h *AuthHandler) logout(req *dispatch.Request) dispatch.Response {
	if err := h.session.Logout(req.BearerToken()); err != nil {
		return api.Unauthorized()
	}
	return api.NoContent()
}
