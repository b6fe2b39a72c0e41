// Package fixtures holds the simulator's seeded backend state: menu items,
// franchises, stores, and the configurable set of valid user accounts. All
// state lives in memory for the duration of a single test run.
package fixtures

import (
	"errors"
	"strconv"
	"strings"

	"github.com/pizza-nz/backend-simulator/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SettlementToken is the placeholder order settlement token returned from
// order placement. The application under test treats it as opaque.
const SettlementToken = "eyJpYXQ"

// ErrDuplicateEmail is returned when a user email is already taken.
var ErrDuplicateEmail = errors.New("user already exists")

// SeedUser describes one valid account supplied at simulator setup.
// Passwords are given in the clear and hashed during registry construction.
type SeedUser struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	Roles    []models.Role `yaml:"roles"`
}

// Registry owns all fixture state for one simulator instance.
type Registry struct {
	users      map[string]*models.User // keyed by email
	menu       []models.MenuItem
	franchises []models.Franchise

	// Demo-data gap: only the seeded franchisee has administered-franchise
	// detail. See AdministeredBy.
	demoFranchiseeID string
	demoFranchises   []models.Franchise

	usedIDs    map[int]bool
	nextID     int
	nextUserID int
}

// New builds a registry seeded with the standard menu and franchises and the
// supplied user accounts.
func New(seed []SeedUser) (*Registry, error) {
	r := &Registry{
		users:      make(map[string]*models.User),
		menu:       defaultMenu(),
		franchises: defaultFranchises(),
		usedIDs:    make(map[int]bool),
		nextID:     100,
		nextUserID: 1,
	}

	for _, f := range r.franchises {
		r.usedIDs[f.ID] = true
		for _, s := range f.Stores {
			r.usedIDs[s.ID] = true
		}
	}
	for _, m := range r.menu {
		r.usedIDs[m.ID] = true
	}

	for _, su := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}

		roles := make([]models.UserRole, 0, len(su.Roles))
		for _, role := range su.Roles {
			roles = append(roles, models.UserRole{Role: role})
		}

		user := &models.User{
			ID:           su.ID,
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			Roles:        roles,
		}
		if _, exists := r.users[user.Email]; exists {
			return nil, ErrDuplicateEmail
		}
		r.users[user.Email] = user

		if id, err := strconv.Atoi(su.ID); err == nil && id >= r.nextUserID {
			r.nextUserID = id + 1
		}

		// The first seeded franchisee becomes the demo franchise owner.
		if r.demoFranchiseeID == "" && user.HasRole(models.RoleFranchisee) {
			r.demoFranchiseeID = user.ID
			r.demoFranchises = demoFranchisesFor(user)
		}
	}

	return r, nil
}

func defaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Title: "Veggie", Image: "pizza1.png", Price: 0.0038, Description: "A garden of delight"},
		{ID: 2, Title: "Pepperoni", Image: "pizza2.png", Price: 0.0042, Description: "Spicy treat"},
	}
}

func defaultFranchises() []models.Franchise {
	return []models.Franchise{
		{
			ID:   2,
			Name: "LotaPizza",
			Stores: []models.Store{
				{ID: 4, Name: "Lehi"},
				{ID: 5, Name: "Springville"},
				{ID: 6, Name: "American Fork"},
			},
		},
		{ID: 3, Name: "PizzaCorp", Stores: []models.Store{{ID: 7, Name: "Spanish Fork"}}},
		{ID: 4, Name: "topSpot", Stores: []models.Store{}},
	}
}

// demoFranchisesFor returns the administered-franchise detail fixture for the
// demo franchise owner.
func demoFranchisesFor(owner *models.User) []models.Franchise {
	return []models.Franchise{
		{
			ID:     2,
			Name:   "LotaPizza",
			Admins: []models.FranchiseAdmin{{ID: owner.ID, Name: owner.Name, Email: owner.Email}},
			Stores: []models.Store{
				{ID: 4, Name: "Lehi", TotalRevenue: 0},
				{ID: 5, Name: "Springville", TotalRevenue: 0},
				{ID: 6, Name: "American Fork", TotalRevenue: 0},
			},
		},
	}
}

// NextID allocates an identifier not currently in use within this run.
func (r *Registry) NextID() int {
	for r.usedIDs[r.nextID] {
		r.nextID++
	}
	id := r.nextID
	r.usedIDs[id] = true
	r.nextID++
	return id
}

// Menu returns the static menu sequence.
func (r *Registry) Menu() []models.MenuItem {
	return r.menu
}

// Franchises returns all franchises, or those whose name contains the filter
// (case-insensitive) when filter is non-empty.
func (r *Registry) Franchises(filter string) []models.Franchise {
	if filter == "" {
		return r.franchises
	}

	needle := strings.ToLower(filter)
	matched := make([]models.Franchise, 0)
	for _, f := range r.franchises {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			matched = append(matched, f)
		}
	}
	return matched
}

// AdministeredBy returns the franchises administered by the given user. Only
// the demo franchise owner has detail data; every other id yields an empty
// list.
func (r *Registry) AdministeredBy(userID string) []models.Franchise {
	if userID != "" && userID == r.demoFranchiseeID {
		return r.demoFranchises
	}
	return []models.Franchise{}
}

// AddFranchise appends a new franchise with a fresh id and no stores.
func (r *Registry) AddFranchise(name string, admins []models.FranchiseAdmin) models.Franchise {
	f := models.Franchise{
		ID:     r.NextID(),
		Name:   name,
		Admins: admins,
		Stores: []models.Store{},
	}
	r.franchises = append(r.franchises, f)
	return f
}

// RemoveFranchise removes the franchise with the given id, reporting whether
// it existed. Removing an unknown id is a no-op.
func (r *Registry) RemoveFranchise(id int) bool {
	for i, f := range r.franchises {
		if f.ID == id {
			r.franchises = append(r.franchises[:i], r.franchises[i+1:]...)
			return true
		}
	}
	return false
}

// AddStore creates a store with a fresh id and zero revenue. The store is
// attached to the franchise when it exists; an unknown franchise id still
// yields a store, matching the real backend's lenient behavior.
func (r *Registry) AddStore(franchiseID int, name string) models.Store {
	store := models.Store{ID: r.NextID(), Name: name, TotalRevenue: 0}
	for i := range r.franchises {
		if r.franchises[i].ID == franchiseID {
			r.franchises[i].Stores = append(r.franchises[i].Stores, store)
			break
		}
	}
	return store
}

// RemoveStore removes a store from a franchise, reporting whether it existed.
func (r *Registry) RemoveStore(franchiseID, storeID int) bool {
	for i := range r.franchises {
		if r.franchises[i].ID != franchiseID {
			continue
		}
		stores := r.franchises[i].Stores
		for j, s := range stores {
			if s.ID == storeID {
				r.franchises[i].Stores = append(stores[:j], stores[j+1:]...)
				return true
			}
		}
	}
	return false
}

// UserByEmail looks up a user by email.
func (r *Registry) UserByEmail(email string) (*models.User, bool) {
	u, ok := r.users[email]
	return u, ok
}

// AddUser registers a new account with the diner role and a fresh id. It
// fails if the email is already taken.
func (r *Registry) AddUser(name, email, passwordHash string) (*models.User, error) {
	if _, exists := r.users[email]; exists {
		return nil, ErrDuplicateEmail
	}

	user := &models.User{
		ID:           strconv.Itoa(r.nextUserID),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        []models.UserRole{{Role: models.RoleDiner}},
	}
	r.nextUserID++
	r.users[email] = user
	return user, nil
}

// RenameUserEmail moves a user to a new email key. It fails if the new email
// belongs to a different user.
func (r *Registry) RenameUserEmail(oldEmail, newEmail string) error {
	user, ok := r.users[oldEmail]
	if !ok {
		return errors.New("no such user")
	}
	if other, exists := r.users[newEmail]; exists && other != user {
		return ErrDuplicateEmail
	}

	delete(r.users, oldEmail)
	user.Email = newEmail
	r.users[newEmail] = user
	return nil
}

// OrderHistory returns the fixed page of past orders shown on the diner
// dashboard. It is canned demo data, never correlated with orders placed
// during the run.
func (r *Registry) OrderHistory() models.OrderHistory {
	return models.OrderHistory{
		DinerID: 416,
		Orders: []models.Order{
			{
				ID:          15,
				FranchiseID: 52,
				StoreID:     5,
				Date:        "2025-10-07T23:12:10.000Z",
				Items: []models.OrderItem{
					{ID: 28, MenuID: 1, Description: "Veggie", Price: 0.0038},
					{ID: 29, MenuID: 2, Description: "Pepperoni", Price: 0.0042},
					{ID: 30, MenuID: 3, Description: "Margarita", Price: 0.0042},
				},
			},
		},
		Page: 1,
	}
}
