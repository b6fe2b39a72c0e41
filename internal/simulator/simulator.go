// Package simulator wires the session, fixtures, and route table into one
// mock backend instance. Each test run constructs its own instance; there is
// no process-wide state, so isolated instances can run side by side.
package simulator

import (
	"github.com/pizza-nz/backend-simulator/internal/api/handler"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/fixtures"
	"github.com/pizza-nz/backend-simulator/internal/models"
	"github.com/pizza-nz/backend-simulator/internal/session"
)

// Config parameterizes a simulator instance.
type Config struct {
	// Users is the set of valid accounts; DefaultUsers when empty.
	Users []fixtures.SeedUser
	// TokenSecret signs issued session tokens.
	TokenSecret string
}

// Simulator owns the mutable backend model for one test run.
type Simulator struct {
	registry   *fixtures.Registry
	session    *session.Session
	dispatcher *dispatch.Dispatcher
}

// DefaultUsers returns the standard demo accounts: one diner, one franchisee,
// one admin.
func DefaultUsers() []fixtures.SeedUser {
	return []fixtures.SeedUser{
		{ID: "3", Name: "Kai Chen", Email: "d@jwt.com", Password: "a", Roles: []models.Role{models.RoleDiner}},
		{ID: "4", Name: "Kai Chen", Email: "f@jwt.com", Password: "a", Roles: []models.Role{models.RoleFranchisee}},
		{ID: "5", Name: "Kai Chen", Email: "a@jwt.com", Password: "a", Roles: []models.Role{models.RoleAdmin}},
	}
}

// New builds a simulator with freshly seeded fixtures and an empty session.
func New(cfg Config) (*Simulator, error) {
	users := cfg.Users
	if len(users) == 0 {
		users = DefaultUsers()
	}

	registry, err := fixtures.New(users)
	if err != nil {
		return nil, err
	}
	sess := session.New(registry, cfg.TokenSecret)

	s := &Simulator{
		registry:   registry,
		session:    sess,
		dispatcher: dispatch.NewDispatcher(),
	}
	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the route table. Registration order defines
// precedence: the narrower franchise routes must come before the collection
// route, and the literal /api/user/me and /api/user/logout paths before the
// /api/user/{id} capture.
func (s *Simulator) registerRoutes() {
	auth := handler.NewAuthHandler(s.session)
	user := handler.NewUserHandler(s.session)
	menu := handler.NewMenuHandler(s.registry)
	order := handler.NewOrderHandler(s.session, s.registry)
	franchise := handler.NewFranchiseHandler(s.session, s.registry)

	s.dispatcher.Handle("/api/auth", auth.HandleAuth)
	s.dispatcher.Handle("/api/user/me", user.HandleMe)
	s.dispatcher.Handle("/api/user/logout", user.HandleLogout)
	s.dispatcher.Handle("/api/user/{id}", user.HandleUpdate)
	s.dispatcher.Handle("/api/order/menu", menu.HandleMenu)
	s.dispatcher.Handle("/api/order", order.HandleOrders)
	s.dispatcher.Handle("/api/franchise/{id}/store/{storeId}", franchise.HandleStoreByID)
	s.dispatcher.Handle("/api/franchise/{id}/store", franchise.HandleStores)
	s.dispatcher.Handle("/api/franchise/{id}", franchise.HandleFranchiseByID)
	s.dispatcher.Handle("/api/franchise", franchise.HandleFranchises)
	s.dispatcher.Handle("/api/franchisee", franchise.HandleFranchisees)
}

// Dispatch answers one intercepted request. The second return is false when
// the request matched no route and should pass through un-mocked.
func (s *Simulator) Dispatch(req *dispatch.Request) (dispatch.Response, bool) {
	return s.dispatcher.Dispatch(req)
}

// Session exposes the session state, mainly for tests.
func (s *Simulator) Session() *session.Session {
	return s.session
}

// Registry exposes the fixture registry, mainly for tests.
func (s *Simulator) Registry() *fixtures.Registry {
	return s.registry
}
