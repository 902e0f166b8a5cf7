package domain

import "time"

// UserRole enumerates the closed role set for identities.
type UserRole string

const (
	RoleUser         UserRole = "USER"
	RoleSupportAgent UserRole = "SUPPORT_AGENT"
	RoleAdmin        UserRole = "ADMIN"
)

// Valid reports whether the role belongs to the closed set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleSupportAgent, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record for every actor in the system.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Role          UserRole
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
