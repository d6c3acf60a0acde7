// Package domain contains the core business entities for the lab inventory
// store. These are pure Go structs with no external dependencies,
// representing the concepts of the bookkeeping system. JSON tags follow the
// persisted document shape, so documents written by earlier deployments
// round-trip unchanged.
package domain

import (
	"time"
)

// Role identifies the kind of account a user holds.
type Role string

// Known roles.
const (
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// User represents a registered lab user.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the unique email address, compared case-sensitively when
	// used as a lookup key.
	Email string `json:"email"`

	// Role is the account role (staff, student).
	Role Role `json:"role"`

	// RegisteredAt is when the account was created.
	RegisteredAt time.Time `json:"registeredAt"`

	// LastLoginAt is the most recent successful login, if any.
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	// LoginCount is the number of successful logins. Never negative.
	LoginCount int `json:"loginCount"`

	// IsActive is true while the user has at least one open login session.
	// It is persisted for document compatibility but reconciled against the
	// session list on every load; see SystemData.ReconcileActiveFlags.
	IsActive bool `json:"isActive"`
}

// NewUser creates a User with the standard defaults: zero logins, inactive.
func NewUser(id, name, email string, role Role, now time.Time) User {
	return User{
		ID:           id,
		Name:         name,
		Email:        email,
		Role:         role,
		RegisteredAt: now,
		LoginCount:   0,
		IsActive:     false,
	}
}
