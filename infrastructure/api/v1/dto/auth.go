// Package dto defines the JSON request and response shapes of the v1 API.
package dto

import (
	"time"

	"github.com/bookdam/bookdam/domain/account"
)

// RegisterRequest is the signup request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body for editing the account.
type UpdateUserRequest struct {
	Email string `json:"email"`
}

// UserResponse is an account on the wire.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is an authenticated session with its access token.
type SessionResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// FromUser converts an account to its wire shape.
func FromUser(u account.User) UserResponse {
	return UserResponse{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
	}
}
