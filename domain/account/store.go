package account

import "context"

// UserStore provides persistence for user accounts.
type UserStore interface {
	// ByID returns a user by database identifier.
	ByID(ctx context.Context, id int64) (User, error)

	// ByUsername returns a user by login name.
	ByUsername(ctx context.Context, username string) (User, error)

	// UsernameExists reports whether the login name is taken.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// Save creates or updates a user.
	Save(ctx context.Context, user User) (User, error)

	// Delete removes a user and, by cascade, everything the user owns
	// (comments, bookmarks, recommendations).
	Delete(ctx context.Context, id int64) error
}
