package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/pizza-nz/backend-simulator/internal/api"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/fixtures"
	"github.com/pizza-nz/backend-simulator/internal/models"
	"github.com/pizza-nz/backend-simulator/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newEnv(t *testing.T) (*session.Session, *fixtures.Registry) {
	t.Helper()
	registry, err := fixtures.New([]fixtures.SeedUser{
		{ID: "3", Name: "Kai Chen", Email: "d@jwt.com", Password: "a", Roles: []models.Role{models.RoleDiner}},
		{ID: "4", Name: "Kai Chen", Email: "f@jwt.com", Password: "a", Roles: []models.Role{models.RoleFranchisee}},
		{ID: "5", Name: "Kai Chen", Email: "a@jwt.com", Password: "a", Roles: []models.Role{models.RoleAdmin}},
	})
	require.NoError(t, err)
	return session.New(registry, "test-secret"), registry
}

func request(t *testing.T, method, path string, body any, token string, params map[string]string) *dispatch.Request {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	return &dispatch.Request{
		Method: method,
		Path:   path,
		Query:  url.Values{},
		Header: header,
		Body:   raw,
		Params: params,
	}
}

func login(t *testing.T, sess *session.Session, email string) string {
	t.Helper()
	_, token, err := sess.Login(email, "a")
	require.NoError(t, err)
	return token
}

func errorMessage(t *testing.T, resp dispatch.Response) string {
	t.Helper()
	body, ok := resp.Body.(api.ErrorBody)
	require.True(t, ok, "expected an error body, got %T", resp.Body)
	return body.Error
}

// ==========================
// Auth
// ==========================

func TestAuthLogin(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewAuthHandler(sess)

	resp := h.HandleAuth(request(t, http.MethodPut, "/api/auth",
		map[string]string{"email": "d@jwt.com", "password": "a"}, "", nil))
	require.Equal(t, http.StatusOK, resp.Status)

	auth, ok := resp.Body.(models.AuthResponse)
	require.True(t, ok)
	assert.Equal(t, "d@jwt.com", auth.User.Email)
	assert.NotEmpty(t, auth.Token)
}

func TestAuthLoginBadPassword(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewAuthHandler(sess)

	resp := h.HandleAuth(request(t, http.MethodPut, "/api/auth",
		map[string]string{"email": "d@jwt.com", "password": "wrong"}, "", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Unauthorized", errorMessage(t, resp))
}

func TestAuthRegisterConflict(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewAuthHandler(sess)

	// The email is taken no matter what name and password are supplied.
	resp := h.HandleAuth(request(t, http.MethodPost, "/api/auth",
		map[string]string{"name": "Imposter", "email": "d@jwt.com", "password": "other"}, "", nil))
	assert.Equal(t, http.StatusConflict, resp.Status)
	assert.Equal(t, "User already exists", errorMessage(t, resp))
}

func TestAuthRegisterSuccess(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewAuthHandler(sess)

	resp := h.HandleAuth(request(t, http.MethodPost, "/api/auth",
		map[string]string{"name": "New User", "email": "test@jwt.click", "password": "mypassword"}, "", nil))
	require.Equal(t, http.StatusOK, resp.Status)

	auth := resp.Body.(models.AuthResponse)
	assert.True(t, auth.User.HasRole(models.RoleDiner))
	assert.Equal(t, auth.User, sess.CurrentUser())
}

func TestAuthLogoutWrongTokenKeepsSession(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewAuthHandler(sess)
	login(t, sess, "d@jwt.com")

	resp := h.HandleAuth(request(t, http.MethodDelete, "/api/auth", nil, "wrong-token", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.NotNil(t, sess.CurrentUser())
}

func TestAuthUnsupportedMethod(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewAuthHandler(sess)

	resp := h.HandleAuth(request(t, http.MethodPatch, "/api/auth", nil, "", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
	assert.Equal(t, "Method Not Allowed", errorMessage(t, resp))
}

// ==========================
// Current user / update
// ==========================

func TestMeEmptySession(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewUserHandler(sess)

	resp := h.HandleMe(request(t, http.MethodGet, "/api/user/me", nil, "", nil))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Body.(*models.User))
}

func TestLogoutEndpointClearsSessionWithoutToken(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewUserHandler(sess)
	login(t, sess, "d@jwt.com")

	resp := h.HandleLogout(request(t, http.MethodPost, "/api/user/logout", nil, "", nil))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Body)
	assert.Nil(t, sess.CurrentUser())

	resp = h.HandleLogout(request(t, http.MethodGet, "/api/user/logout", nil, "", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
}

func TestUpdateUserAuthorizationComesFirst(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewUserHandler(sess)
	login(t, sess, "d@jwt.com")

	// A bad token wins over a malformed body.
	req := request(t, http.MethodPut, "/api/user/3", nil, "wrong-token", map[string]string{"id": "3"})
	req.Body = []byte("{not json")
	resp := h.HandleUpdate(req)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestUpdateUserReturnsUnchangedToken(t *testing.T) {
	sess, _ := newEnv(t)
	h := NewUserHandler(sess)
	token := login(t, sess, "d@jwt.com")

	resp := h.HandleUpdate(request(t, http.MethodPut, "/api/user/3",
		models.UserUpdateRequest{Name: "pizza dinerx"}, token, map[string]string{"id": "3"}))
	require.Equal(t, http.StatusOK, resp.Status)

	auth := resp.Body.(models.AuthResponse)
	assert.Equal(t, "pizza dinerx", auth.User.Name)
	assert.Equal(t, token, auth.Token)
}

// ==========================
// Menu
// ==========================

func TestMenuListing(t *testing.T) {
	_, registry := newEnv(t)
	h := NewMenuHandler(registry)

	resp := h.HandleMenu(request(t, http.MethodGet, "/api/order/menu", nil, "", nil))
	require.Equal(t, http.StatusOK, resp.Status)

	// Repeated reads return identical payloads.
	again := h.HandleMenu(request(t, http.MethodGet, "/api/order/menu", nil, "", nil))
	assert.Equal(t, resp, again)

	resp = h.HandleMenu(request(t, http.MethodPost, "/api/order/menu", nil, "", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
}

// ==========================
// Franchises and stores
// ==========================

func TestFranchiseListFilter(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)

	req := request(t, http.MethodGet, "/api/franchise", nil, "", nil)
	req.Query = url.Values{"name": []string{"lotapizza"}}
	resp := h.HandleFranchises(req)
	require.Equal(t, http.StatusOK, resp.Status)

	list := resp.Body.(models.FranchiseList)
	require.Len(t, list.Franchises, 1)
	assert.Equal(t, "LotaPizza", list.Franchises[0].Name)
}

func TestFranchiseCreateRoleGate(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "f@jwt.com")

	// A non-Admin session is rejected by policy, never with a generic 401.
	resp := h.HandleFranchises(request(t, http.MethodPost, "/api/franchise",
		models.FranchiseRequest{Name: "Pizza Planet"}, token, nil))
	assert.Equal(t, http.StatusForbidden, resp.Status)
	assert.Equal(t, "unable to create a franchise", errorMessage(t, resp))
	assert.Len(t, registry.Franchises(""), 3)
}

func TestFranchiseCreateAsAdmin(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "a@jwt.com")

	resp := h.HandleFranchises(request(t, http.MethodPost, "/api/franchise",
		models.FranchiseRequest{Name: "Pizza Planet"}, token, nil))
	require.Equal(t, http.StatusOK, resp.Status)

	created := resp.Body.(models.Franchise)
	assert.Equal(t, "Pizza Planet", created.Name)
	assert.NotZero(t, created.ID)
	assert.Len(t, registry.Franchises(""), 4)
}

func TestFranchiseCreateWithoutSession(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)

	resp := h.HandleFranchises(request(t, http.MethodPost, "/api/franchise",
		models.FranchiseRequest{Name: "Pizza Planet"}, "", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestFranchiseDeleteEmbedsID(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "a@jwt.com")

	resp := h.HandleFranchiseByID(request(t, http.MethodDelete, "/api/franchise/4",
		nil, token, map[string]string{"id": "4"}))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, confirmation{Message: "franchise 4 deleted"}, resp.Body)
	assert.Len(t, registry.Franchises(""), 2)

	// Deleting an id that no longer exists still succeeds.
	resp = h.HandleFranchiseByID(request(t, http.MethodDelete, "/api/franchise/4",
		nil, token, map[string]string{"id": "4"}))
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestFranchisesAdministeredByDemoUser(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)

	resp := h.HandleFranchiseByID(request(t, http.MethodGet, "/api/franchise/4",
		nil, "", map[string]string{"id": "4"}))
	require.Equal(t, http.StatusOK, resp.Status)
	detail := resp.Body.([]models.Franchise)
	require.Len(t, detail, 1)
	assert.Equal(t, "LotaPizza", detail[0].Name)

	resp = h.HandleFranchiseByID(request(t, http.MethodGet, "/api/franchise/99",
		nil, "", map[string]string{"id": "99"}))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, resp.Body.([]models.Franchise))
}

func TestFranchiseeCreationEchoesAccount(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "a@jwt.com")

	resp := h.HandleFranchisees(request(t, http.MethodPost, "/api/franchisee",
		models.FranchiseeRequest{Name: "pizza franchisee", Email: "pf@jwt.com"}, token, nil))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, models.FranchiseeRequest{Name: "pizza franchisee", Email: "pf@jwt.com"}, resp.Body)

	// The account is an echo only; the login user set is untouched.
	_, ok := registry.UserByEmail("pf@jwt.com")
	assert.False(t, ok)
}

func TestFranchiseeCreationRequiresToken(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	login(t, sess, "a@jwt.com")

	resp := h.HandleFranchisees(request(t, http.MethodPost, "/api/franchisee",
		models.FranchiseeRequest{Name: "pizza franchisee", Email: "pf@jwt.com"}, "stale-token", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestStoreCreate(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "f@jwt.com")

	resp := h.HandleStores(request(t, http.MethodPost, "/api/franchise/2/store",
		models.StoreRequest{Name: "Provo"}, token, map[string]string{"id": "2"}))
	require.Equal(t, http.StatusOK, resp.Status)

	store := resp.Body.(models.Store)
	assert.Equal(t, "Provo", store.Name)
	assert.Zero(t, store.TotalRevenue)
	assert.NotZero(t, store.ID)
}

func TestStoreCreateRequiresName(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "f@jwt.com")

	resp := h.HandleStores(request(t, http.MethodPost, "/api/franchise/2/store",
		models.StoreRequest{}, token, map[string]string{"id": "2"}))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestStoreDeleteEmbedsBothIDs(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	token := login(t, sess, "f@jwt.com")

	resp := h.HandleStoreByID(request(t, http.MethodDelete, "/api/franchise/2/store/4",
		nil, token, map[string]string{"id": "2", "storeId": "4"}))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, confirmation{Message: "store 4 deleted from franchise 2"}, resp.Body)
}

func TestStoreMutationsRequireToken(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewFranchiseHandler(sess, registry)
	login(t, sess, "f@jwt.com")

	// An active session is not enough: the presented token must match.
	resp := h.HandleStores(request(t, http.MethodPost, "/api/franchise/2/store",
		models.StoreRequest{Name: "Provo"}, "stale-token", map[string]string{"id": "2"}))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = h.HandleStoreByID(request(t, http.MethodDelete, "/api/franchise/2/store/4",
		nil, "", map[string]string{"id": "2", "storeId": "4"}))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

// ==========================
// Orders
// ==========================

func TestOrderPlacementEchoesItems(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewOrderHandler(sess, registry)
	token := login(t, sess, "d@jwt.com")

	resp := h.HandleOrders(request(t, http.MethodPost, "/api/order", map[string]any{
		"franchiseId": 2,
		"storeId":     4,
		"items": []map[string]any{
			{"menuId": 1, "description": "Veggie", "price": 0.0038},
		},
	}, token, nil))
	require.Equal(t, http.StatusOK, resp.Status)

	rec := resp.Body.(receipt)
	assert.Equal(t, fixtures.SettlementToken, rec.JWT)
	assert.NotNil(t, rec.Order["id"])
	items := rec.Order["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Veggie", items[0].(map[string]any)["description"])
}

func TestOrderPlacementRejectsNullBody(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewOrderHandler(sess, registry)
	token := login(t, sess, "d@jwt.com")

	// "null" is valid JSON but leaves the decoded map nil; the handler must
	// answer 400 rather than fault on the id assignment.
	req := request(t, http.MethodPost, "/api/order", nil, token, nil)
	req.Body = []byte("null")
	resp := h.HandleOrders(req)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "Invalid request body", errorMessage(t, resp))
}

func TestOrderPlacementRequiresToken(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewOrderHandler(sess, registry)

	resp := h.HandleOrders(request(t, http.MethodPost, "/api/order",
		map[string]any{"items": []any{}}, "", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestOrderHistoryFixedPage(t *testing.T) {
	sess, registry := newEnv(t)
	h := NewOrderHandler(sess, registry)

	resp := h.HandleOrders(request(t, http.MethodGet, "/api/order", nil, "", nil))
	require.Equal(t, http.StatusOK, resp.Status)

	history := resp.Body.(models.OrderHistory)
	assert.Equal(t, 416, history.DinerID)
	assert.Equal(t, 1, history.Page)
}
