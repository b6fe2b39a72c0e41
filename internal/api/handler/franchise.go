package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pizza-nz/backend-simulator/internal/api"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/fixtures"
	"github.com/pizza-nz/backend-simulator/internal/models"
	"github.com/pizza-nz/backend-simulator/internal/session"
)

// FranchiseHandler handles franchise and store requests.
type FranchiseHandler struct {
	session  *session.Session
	registry *fixtures.Registry
}

// NewFranchiseHandler creates a new franchise handler.
func NewFranchiseHandler(sess *session.Session, registry *fixtures.Registry) *FranchiseHandler {
	return &FranchiseHandler{session: sess, registry: registry}
}

// HandleFranchises handles requests for /api/franchise.
func (h *FranchiseHandler) HandleFranchises(req *dispatch.Request) dispatch.Response {
	switch req.Method {
	case http.MethodGet:
		return h.listFranchises(req)
	case http.MethodPost:
		return h.createFranchise(req)
	default:
		return api.MethodNotAllowed()
	}
}

// listFranchises lists all franchises, restricted by the optional name
// filter. The filter is a case-insensitive substring match.
func (h *FranchiseHandler) listFranchises(req *dispatch.Request) dispatch.Response {
	filter := req.Query.Get("name")
	return api.OK(models.FranchiseList{Franchises: h.registry.Franchises(filter)})
}

// createFranchise creates a franchise for an Admin caller. A session whose
// user lacks the Admin role is rejected by policy, not with a generic 401.
func (h *FranchiseHandler) createFranchise(req *dispatch.Request) dispatch.Response {
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}
	if !h.session.CurrentUser().HasRole(models.RoleAdmin) {
		return api.Forbidden("unable to create a franchise")
	}

	var body models.FranchiseRequest
	if err := req.DecodeJSON(&body); err != nil {
		return api.BadRequest("Invalid request body")
	}

	return api.OK(h.registry.AddFranchise(body.Name, body.Admins))
}

// HandleFranchiseByID handles requests for /api/franchise/{id}.
func (h *FranchiseHandler) HandleFranchiseByID(req *dispatch.Request) dispatch.Response {
	switch req.Method {
	case http.MethodGet:
		// The path id is a user id here: franchises administered by that
		// user. Only the demo franchise owner has detail data.
		return api.OK(h.registry.AdministeredBy(req.Params["id"]))
	case http.MethodDelete:
		return h.deleteFranchise(req)
	default:
		return api.MethodNotAllowed()
	}
}

// deleteFranchise removes a franchise. Deleting an id that does not exist
// still succeeds; the confirmation embeds the requested id either way.
func (h *FranchiseHandler) deleteFranchise(req *dispatch.Request) dispatch.Response {
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}

	id, err := strconv.Atoi(req.Params["id"])
	if err != nil {
		return api.BadRequest("Invalid franchise ID")
	}
	h.registry.RemoveFranchise(id)

	return api.OK(messageBody(fmt.Sprintf("franchise %d deleted", id)))
}

// HandleFranchisees handles requests for /api/franchisee. The account is not
// persisted anywhere; the submitted name and email are echoed back.
func (h *FranchiseHandler) HandleFranchisees(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodPost {
		return api.MethodNotAllowed()
	}
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}

	var body models.FranchiseeRequest
	if err := req.DecodeJSON(&body); err != nil {
		return api.BadRequest("Invalid request body")
	}

	return api.OK(body)
}

// HandleStores handles requests for /api/franchise/{id}/store.
func (h *FranchiseHandler) HandleStores(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodPost {
		return api.MethodNotAllowed()
	}
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}

	franchiseID, err := strconv.Atoi(req.Params["id"])
	if err != nil {
		return api.BadRequest("Invalid franchise ID")
	}

	var body models.StoreRequest
	if err := req.DecodeJSON(&body); err != nil {
		return api.BadRequest("Invalid request body")
	}
	if body.Name == "" {
		return api.BadRequest("Store name is required")
	}

	return api.OK(h.registry.AddStore(franchiseID, body.Name))
}

// HandleStoreByID handles requests for /api/franchise/{id}/store/{storeId}.
func (h *FranchiseHandler) HandleStoreByID(req *dispatch.Request) dispatch.Response {
	if req.Method != http.MethodDelete {
		return api.MethodNotAllowed()
	}
	if !h.session.Authorize(req.BearerToken()) {
		return api.Unauthorized()
	}

	franchiseID, err := strconv.Atoi(req.Params["id"])
	if err != nil {
		return api.BadRequest("Invalid franchise ID")
	}
	storeID, err := strconv.Atoi(req.Params["storeId"])
	if err != nil {
		return api.BadRequest("Invalid store ID")
	}
	h.registry.RemoveStore(franchiseID, storeID)

	return api.OK(messageBody(fmt.Sprintf("store %d deleted from franchise %d", storeID, franchiseID)))
}

// confirmation is the body returned from deletions.
type confirmation struct {
	Message string `json:"message"`
}

func messageBody(message string) confirmation {
	return confirmation{Message: message}
}
