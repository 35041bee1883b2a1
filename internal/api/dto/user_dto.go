package dto

import (
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token      string           `json:"token"`
	ExpiresAt  time.Time        `json:"expires_at"`
	User       UserResponse     `json:"user"`
	Navigation []domain.NavItem `json:"navigation"`
}

// MeResponse describes the signed-in caller.
type MeResponse struct {
	User       UserResponse     `json:"user"`
	Navigation []domain.NavItem `json:"navigation"`
	SessionID  string           `json:"session_id"`
	ExpiresAt  time.Time        `json:"expires_at"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password"`
}

// UserResponse represents a user without credentials.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}
