// Package service contains the application services that tie domain
// logic to storage and AI providers.
package service

import "errors"

// Service errors mapped to API responses by the HTTP layer.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken indicates the login name is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrForbidden indicates the caller does not own the entity.
	ErrForbidden = errors.New("not allowed")
)
