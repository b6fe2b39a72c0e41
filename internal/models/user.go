package models

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleDiner      Role = "diner"
	RoleFranchisee Role = "franchisee"
	RoleAdmin      Role = "admin"
)

// UserRole wraps a single role assignment, matching the backend's wire shape
// of roles: [{role: "diner"}].
type UserRole struct {
	Role Role `json:"role"`
}

// User is an account known to the simulator.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Roles        []UserRole `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// UserUpdateRequest is used for updating user information. Empty fields are
// left unchanged.
type UserUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned from login, registration, and user update.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
