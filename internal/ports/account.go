package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by stores when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique name is already taken.
	ErrDuplicate = errors.New("already exists")
)

// Account is a stored player account. Guests have no password.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Guest        bool
	CreatedAt    time.Time
}

// AccountPort stores player accounts.
type AccountPort interface {
	// CreateUser stores a new password account. Returns ErrDuplicate if the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (Account, error)
	// CreateGuest stores a new guest account. Returns ErrDuplicate if the name is taken.
	CreateGuest(ctx context.Context, name string) (Account, error)
	// FindUser looks an account up by username. Returns ErrNotFound when missing.
	FindUser(ctx context.Context, username string) (Account, error)
	// UpdatePassword replaces the stored hash for userID.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// ProfilePort defines the interface for updating account profiles on an external identity provider.
type ProfilePort interface {
	// UpdateProfile updates account profile fields for the given user.
	// userID identifies the account to update; username/displayName are applied as provided.
	// Returns an error if the profile update fails.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
