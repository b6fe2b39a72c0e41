package handler

import (
	"net/http"

	"github.com/pizza-nz/backend-simulator/internal/api"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/fixtures"
	"github.com/pizza-nz/backend-simulator/internal/session"
)

// OrderHandler handles order placement and the diner's order history.
type OrderHandler struct {
	session  *session.Session
	registry *fixtures.Registry
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(sess *session.Session, registry *fixtures.Registry) *OrderHandler {
	return &OrderHandler{session: sess, registry: registry}
}

// HandleOrders handles requests for /api/order.
func (h *OrderHandler) HandleOrders(req *dispatch.Request) dispatch.Response {
	switch req.Method {
	case http.MethodPost:
		return h.placeOrder(req)
	case http.MethodGet:
		return h.orderHistory(req)
	default:
		return api.MethodNotAllowed()
	}
}

// placeOrder echoes the submitted payload with a server-assigned id and the
// settlement token. No franchise or store existence validation is performed.
func (h *OrderHandler) placeOrder(req *dispatch.Request) dispatch.Response {
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}

	// The payload is echoed field for field, so it is decoded untyped. A JSON
	// null decodes without error into a nil map and is rejected here.
	var order map[string]any
	if err := req.DecodeJSON(&order); err != nil || order == nil {
		return api.BadRequest("Invalid request body")
	}
	order["id"] = h.registry.NextID()

	return api.OK(receipt{Order: order, JWT: fixtures.SettlementToken})
}

// receipt is the body returned from order placement: the echoed order plus
// the settlement token.
type receipt struct {
	Order map[string]any `json:"order"`
	JWT   string         `json:"jwt"`
}

// orderHistory returns the fixed demo page regardless of what was placed
// during the run.
func (h *OrderHandler) orderHistory(req *dispatch.Request) dispatch.Response {
	return api.OK(h.registry.OrderHistory())
}
