package auth

import (
	"errors"
	"regexp"
	"time"
)

// emailPattern is a pragmatic email shape check: one @, no spaces, a dot in
// the domain. Real validation happens when the confirmation email bounces;
// this only keeps junk out of the UNIQUE column.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxEmailLength is the maximum allowed email length.
const maxEmailLength = 254

// IsValidEmail checks if an email address meets format requirements.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleCustomer is a self-registered account. Can browse inventory and
	// manage its own profile, nothing else.
	RoleCustomer Role = "Customer"

	// RoleEmployee is dealership staff. Full inventory management access.
	RoleEmployee Role = "Employee"

	// RoleAdmin has everything an employee has. Kept distinct so future
	// admin-only surfaces don't need a schema change.
	RoleAdmin Role = "Admin"
)

// ValidRoles is the closed set of account roles.
var ValidRoles = []Role{RoleCustomer, RoleEmployee, RoleAdmin}

// IsValidRole returns true if the role is a member of the closed set.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsStaff returns true for the two privileged roles that may manage
// inventory. Role checks everywhere go through this method rather than
// comparing strings at call sites.
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Account represents a stored account row, including the password hash.
// It never leaves the auth and web packages; anything rendered or embedded
// in a token goes through Identity() first.
type Account struct {
	ID           int64     `json:"account_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated identity snapshot: what the session token
// embeds and what handlers receive from the verification middleware. It is
// constructed once per request by the middleware and passed by value —
// handlers never re-derive it.
type Identity struct {
	AccountID int64  `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Identity returns the account's token-safe identity snapshot.
// The password hash is deliberately unreachable from the returned value.
func (a *Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrTokenExpired       = errors.New("session token has expired")
	ErrTokenMalformed     = errors.New("session token is malformed")
	ErrSignatureInvalid   = errors.New("session token signature is invalid")
)
