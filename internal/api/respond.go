// Package api provides the response helpers shared by all mock handlers.
package api

import (
	"net/http"

	"github.com/pizza-nz/backend-simulator/internal/dispatch"
)

// ErrorBody is the uniform error payload.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON builds a response with the given status and JSON body.
func JSON(status int, body any) dispatch.Response {
	return dispatch.Response{Status: status, Body: body}
}

// OK builds a 200 response.
func OK(body any) dispatch.Response {
	return JSON(http.StatusOK, body)
}

// NoContent builds a 200 response with an empty body.
func NoContent() dispatch.Response {
	return dispatch.Response{Status: http.StatusOK}
}

// BadRequest builds a 400 response with the given message.
func BadRequest(message string) dispatch.Response {
	return JSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// Unauthorized builds the 401 response used for missing or mismatched
// tokens and bad login credentials.
func Unauthorized() dispatch.Response {
	return JSON(http.StatusUnauthorized, ErrorBody{Error: "Unauthorized"})
}

// Forbidden builds a 403 response carrying a policy-specific message,
// distinct from a generic authorization failure.
func Forbidden(message string) dispatch.Response {
	return JSON(http.StatusForbidden, ErrorBody{Error: message})
}

// Conflict builds a 409 response with the given message.
func Conflict(message string) dispatch.Response {
	return JSON(http.StatusConflict, ErrorBody{Error: message})
}

// MethodNotAllowed builds the 405 response for a matched path whose method
// the handler does not support.
func MethodNotAllowed() dispatch.Response {
	return JSON(http.StatusMethodNotAllowed, ErrorBody{Error: "Method Not Allowed"})
}
