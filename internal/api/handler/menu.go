package handler

import (
	"net/http"

	"github.com/pizza-nz/backend-simulator/internal/api"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/fixtures"
)

// MenuHandler handles menu listing.
type MenuHandler struct {
	registry *fixtures.Registry
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(registry *fixtures.Registry) *MenuHandler {
	return &MenuHandler{registry: registry}
}

// HandleMenu handles requests for /api/order/menu. The listing is
// unauthenticated and returns the static menu sequence unchanged.
func (h *MenuHandler) HandleMenu(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodGet {
		return api.MethodNotAllowed()
	}
	return api.OK(h.registry.Menu())
}
