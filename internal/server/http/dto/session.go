package dto

import "time"

// SessionRequest opens a wallet session for a backend bearer token.
type SessionRequest struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// RoleRequest switches the session role.
type RoleRequest struct {
	Role string `json:"role"`
}

// SessionResponse describes an open session.
type SessionResponse struct {
	Token     string        `json:"token,omitempty"`
	Role      string        `json:"role"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user,omitempty"`
}

// UserResponse is the user snapshot shown by the wallet.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Balance     string `json:"balance"`
	Currency    string `json:"currency"`
	Verified    bool   `json:"verified"`
	CountryCode string `json:"countryCode,omitempty"`
	Role        string `json:"role"`
}
