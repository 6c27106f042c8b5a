package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookdam/bookdam/domain/account"
	"github.com/bookdam/bookdam/internal/database"
)

// AccountService handles registration, login and account removal.
type AccountService struct {
	users  account.UserStore
	tokens TokenManager
	logger *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(users account.UserStore, tokens TokenManager, logger *slog.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, logger: logger}
}

// Session is an authenticated user with a fresh access token.
type Session struct {
	User      account.User
	Token     string
	ExpiresAt time.Time
}

// Register creates an account and logs it in.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (Session, error) {
	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return Session{}, ErrUsernameTaken
	}

	user, err := account.NewUser(username, email, password)
	if err != nil {
		return Session{}, err
	}
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return Session{}, fmt.Errorf("save user: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", saved.ID(), "username", saved.Username())
	return s.newSession(saved)
}

// Login verifies credentials and issues an access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if err := user.CheckPassword(password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.newSession(user)
}

// Get returns the account for a user ID.
func (s *AccountService) Get(ctx context.Context, userID int64) (account.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return account.User{}, ErrNotFound
	}
	return user, err
}

// UpdateEmail changes the account's email address.
func (s *AccountService) UpdateEmail(ctx context.Context, userID int64, email string) (account.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return account.User{}, err
	}
	return s.users.Save(ctx, user.WithEmail(email))
}

// Delete removes the account and everything it owns.
func (s *AccountService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}

// VerifyToken exposes token verification to the HTTP middleware.
func (s *AccountService) VerifyToken(token string) (int64, string, error) {
	return s.tokens.Verify(token)
}

func (s *AccountService) newSession(user account.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
