package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdam/bookdam/domain/account"
	"github.com/bookdam/bookdam/internal/database"
)

type memUserStore struct {
	users  map[int64]account.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int64]account.User{}}
}

func (s *memUserStore) ByID(_ context.Context, id int64) (account.User, error) {
	u, ok := s.users[id]
	if !ok {
		return account.User{}, database.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) ByUsername(_ context.Context, username string) (account.User, error) {
	for _, u := range s.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return account.User{}, database.ErrNotFound
}

func (s *memUserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.ByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *memUserStore) Save(_ context.Context, user account.User) (account.User, error) {
	id := user.ID()
	if id == 0 {
		s.nextID++
		id = s.nextID
	}
	saved := account.ReconstructUser(id, user.Username(), user.Email(), user.PasswordHash(), user.CreatedAt())
	s.users[id] = saved
	return saved, nil
}

func (s *memUserStore) Delete(_ context.Context, id int64) error {
	delete(s.users, id)
	return nil
}

func newTestAccounts() (*AccountService, *memUserStore) {
	store := newMemUserStore()
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewAccountService(store, tokens, testLogger()), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAccounts()
	ctx := context.Background()

	session, err := svc.Register(ctx, "dokja", "dokja@example.com", "reading-is-life")
	require.NoError(t, err)
	assert.NotZero(t, session.User.ID())
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	again, err := svc.Login(ctx, "dokja", "reading-is-life")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID(), again.User.ID())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAccounts()
	ctx := context.Background()

	_, err := svc.Register(ctx, "dokja", "a@example.com", "password-one")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dokja", "b@example.com", "password-two")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	svc, _ := newTestAccounts()
	ctx := context.Background()

	_, err := svc.Register(ctx, "dokja", "dokja@example.com", "reading-is-life")
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, "dokja", "wrong")
	_, noUser := svc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
}

func TestVerifyToken_RoundTrip(t *testing.T) {
	svc, _ := newTestAccounts()
	ctx := context.Background()

	session, err := svc.Register(ctx, "dokja", "dokja@example.com", "reading-is-life")
	require.NoError(t, err)

	userID, username, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID(), userID)
	assert.Equal(t, "dokja", username)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc, _ := newTestAccounts()
	_, _, err := svc.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)
	user := account.ReconstructUser(1, "dokja", "d@example.com", "hash", time.Now())

	token, _, err := issuer.Issue(user)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredRejected(t *testing.T) {
	tokens := NewTokenManager("secret", -time.Minute)
	user := account.ReconstructUser(1, "dokja", "d@example.com", "hash", time.Now())

	token, _, err := tokens.Issue(user)
	require.NoError(t, err)

	_, _, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateEmail(t *testing.T) {
	svc, _ := newTestAccounts()
	ctx := context.Background()

	session, err := svc.Register(ctx, "dokja", "old@example.com", "reading-is-life")
	require.NoError(t, err)

	user, err := svc.UpdateEmail(ctx, session.User.ID(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email())

	// Password survives the update.
	_, err = svc.Login(ctx, "dokja", "reading-is-life")
	assert.NoError(t, err)
}

func TestAccountDelete(t *testing.T) {
	svc, store := newTestAccounts()
	ctx := context.Background()

	session, err := svc.Register(ctx, "dokja", "dokja@example.com", "reading-is-life")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, session.User.ID()))
	_, err = svc.Get(ctx, session.User.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.users)
}
