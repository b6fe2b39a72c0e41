package models

// Store is a single location belonging to a franchise.
type Store struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// FranchiseAdmin identifies a user administering a franchise.
type FranchiseAdmin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Franchise groups stores under one owner.
type Franchise struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins,omitempty"`
	Stores []Store          `json:"stores"`
}

// FranchiseList is the wire shape of the franchise collection.
type FranchiseList struct {
	Franchises []Franchise `json:"franchises"`
}

// FranchiseRequest is used for franchise creation.
type FranchiseRequest struct {
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins"`
}

// StoreRequest is used for store creation.
type StoreRequest struct {
	Name string `json:"name"`
}

// FranchiseeRequest is used for franchisee account creation. The response
// echoes the same two fields.
type FranchiseeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
