package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates a missing or unusable access token.
var ErrUnauthorized = errors.New("authentication required")

// TokenVerifier validates an access token and returns the user it was
// issued for.
type TokenVerifier interface {
	VerifyToken(token string) (userID int64, username string, err error)
}

type authUserKey struct{}

type authUser struct {
	id       int64
	username string
}

// RequireAuth returns middleware that rejects requests without a valid
// Bearer token and stores the authenticated user in the context.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := verifyRequest(verifier, r)
			if !ok {
				if logger != nil {
					logger.Warn("unauthorized request",
						"correlation_id", GetCorrelationID(r.Context()),
						"path", r.URL.Path)
				}
				WriteError(w, r, ErrUnauthorized, nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth returns middleware that stores the authenticated user in
// the context when a valid Bearer token is present, and passes the
// request through anonymously otherwise.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := verifyRequest(verifier, r); ok {
				r = r.WithContext(withUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func verifyRequest(verifier TokenVerifier, r *http.Request) (authUser, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return authUser{}, false
	}
	id, username, err := verifier.VerifyToken(token)
	if err != nil {
		return authUser{}, false
	}
	return authUser{id: id, username: username}, true
}

func withUser(ctx context.Context, user authUser) context.Context {
	return context.WithValue(ctx, authUserKey{}, user)
}

// UserID returns the authenticated user's ID, ok=false when the request
// is anonymous.
func UserID(ctx context.Context) (int64, bool) {
	user, ok := ctx.Value(authUserKey{}).(authUser)
	return user.id, ok
}

// Username returns the authenticated user's login name.
func Username(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(authUserKey{}).(authUser)
	return user.username, ok
}
