// Package account provides domain types for user accounts.
package account

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Validation errors.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("wrong password")
)

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	id           int64
	username     string
	email        string
	passwordHash string
	createdAt    time.Time
}

// NewUser creates a user with a freshly hashed password.
func NewUser(username, email, password string) (User, error) {
	if username == "" {
		return User{}, ErrUsernameRequired
	}
	if len(password) < 8 {
		return User{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return User{
		username:     username,
		email:        email,
		passwordHash: string(hash),
		createdAt:    time.Now(),
	}, nil
}

// ReconstructUser recreates a user from persistence.
func ReconstructUser(id int64, username, email, passwordHash string, createdAt time.Time) User {
	return User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

// ID returns the user's database identifier.
func (u User) ID() int64 { return u.id }

// Username returns the login name.
func (u User) Username() string { return u.username }

// Email returns the registered email address.
func (u User) Email() string { return u.email }

// PasswordHash returns the bcrypt password hash.
func (u User) PasswordHash() string { return u.passwordHash }

// CreatedAt returns the registration timestamp.
func (u User) CreatedAt() time.Time { return u.createdAt }

// CheckPassword verifies a candidate password against the stored hash.
func (u User) CheckPassword(password string) error {
	if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// WithEmail returns a copy of the user with the email updated.
func (u User) WithEmail(email string) User {
	u.email = email
	return u
}
