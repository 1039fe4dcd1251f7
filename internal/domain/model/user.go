package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role selects between the subscriber and tipster experiences.
type Role string

const (
	RoleCustomer Role = "customer"
	RolePunter   Role = "punter"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RolePunter:
		return Role(s), true
	}
	return "", false
}

// User is the read-only snapshot of a backend account. Only the backend
// mutates it; the wallet replaces it wholesale with server values.
type User struct {
	ID          string
	Email       string
	Balance     decimal.Decimal
	Verified    bool
	CountryCode string
	Role        Role
	FetchedAt   time.Time
}

// Session binds a wallet session to the backend bearer token and role.
type Session struct {
	ID           string
	BackendToken string
	Role         Role
	UserID       string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
