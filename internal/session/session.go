// Package session tracks the single authenticated identity of a simulator
// instance and the token bound to it.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pizza-nz/backend-simulator/internal/fixtures"
	"github.com/pizza-nz/backend-simulator/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUnauthorized covers bad credentials at login and token mismatches.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when registering an email that already exists.
	ErrConflict = errors.New("user already exists")
)

// Session holds at most one authenticated user and its issued token.
// Login and registration replace any existing session; logout clears it.
type Session struct {
	registry *fixtures.Registry
	secret   []byte

	user  *models.User
	token string
}

// New creates an empty session backed by the given registry. The secret
// signs issued tokens.
func New(registry *fixtures.Registry, secret string) *Session {
	return &Session{
		registry: registry,
		secret:   []byte(secret),
	}
}

// Claims are embedded in issued tokens so they parse like the real backend's.
type Claims struct {
	UserID string        `json:"user_id"`
	Roles  []models.Role `json:"roles"`
	jwt.RegisteredClaims
}

// issueToken signs a fresh token for the user. Callers treat the result as an
// opaque string; authorization is equality with the session token, never
// cryptographic validation.
func (s *Session) issueToken(user *models.User) (string, error) {
	roles := make([]models.Role, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Role)
	}

	claims := &Claims{
		UserID: user.ID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Login authenticates against the registry's user set. On success it replaces
// any existing session (last login wins) and issues a new token.
func (s *Session) Login(email, password string) (*models.User, string, error) {
	user, ok := s.registry.UserByEmail(email)
	if !ok {
		return nil, "", ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrUnauthorized
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.user = user
	s.token = token
	return user, token, nil
}

// Register adds a new diner account to the registry and behaves like a
// successful login for it. A duplicate email fails with ErrConflict.
func (s *Session) Register(name, email, password string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.registry.AddUser(name, email, string(hash))
	if err != nil {
		return nil, "", ErrConflict
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.user = user
	s.token = token
	return user, token, nil
}

// Logout clears the session when the presented token matches the current one.
// A mismatch fails without touching the session.
func (s *Session) Logout(presented string) error {
	if !s.Authorize(presented) {
		return ErrUnauthorized
	}
	s.user = nil
	s.token = ""
	return nil
}

// Clear empties the session without a token check. The alternate logout
// endpoint clears state this way; token-bound logout goes through Logout.
func (s *Session) Clear() {
	s.user = nil
	s.token = ""
}

// CurrentUser returns the user occupying the session, or nil when empty.
func (s *Session) CurrentUser() *models.User {
	return s.user
}

// Token returns the currently issued token, or empty when no session is
// active.
func (s *Session) Token() string {
	return s.token
}

// Authorize reports whether the presented token equals the session's current
// token. It is a pure check with no side effects.
func (s *Session) Authorize(presented string) bool {
	return s.token != "" && presented == s.token
}

// UpdateUser mutates the session's user in place, leaving empty fields
// unchanged, and returns the updated user with the unchanged token.
func (s *Session) UpdateUser(req models.UserUpdateRequest) (*models.User, string, error) {
	if s.user == nil {
		return nil, "", ErrUnauthorized
	}

	if req.Email != "" && req.Email != s.user.Email {
		if err := s.registry.RenameUserEmail(s.user.Email, req.Email); err != nil {
			return nil, "", ErrConflict
		}
	}
	if req.Name != "" {
		s.user.Name = req.Name
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
		if err != nil {
			return nil, "", err
		}
		s.user.PasswordHash = string(hash)
	}

	return s.user, s.token, nil
}
