package model

import "github.com/golang-jwt/jwt/v5"

// Roles carried in JWT claims. Standard-role callers never receive
// unrevealed answer keys.
const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

// Claims are the JWT claims for both admin and participant tokens.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
