package store

import (
	"context"
	"errors"
)

// ErrUserExists is returned by Insert when the user id is taken.
var ErrUserExists = errors.New("store: user already exists")

// Credentials is the server's view of the user database. Implementations
// must be safe for concurrent calls, including concurrent Insert for the
// same user id: exactly one such call may succeed.
type Credentials interface {
	// Exists reports whether a user id is registered.
	Exists(ctx context.Context, userID string) (bool, error)

	// Authenticate reports whether the user id and password match a
	// stored record. A missing user is a mismatch, not an error.
	Authenticate(ctx context.Context, userID, password string) (bool, error)

	// Insert registers a new user. The existence check and the write
	// are one atomic unit; a taken user id yields ErrUserExists.
	Insert(ctx context.Context, userID, password string) error

	// Close releases the underlying storage.
	Close() error
}
