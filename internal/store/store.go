package store

import (
	"context"

	"github.com/authwave/apiserver/types"
)

// UserStore defines persistence operations for user records across
// backends. All backends key the record by email.
type UserStore interface {
	// GetByEmail fetches a user record, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (types.User, error)

	// Create inserts a new record if and only if no record with the
	// same email exists; otherwise ErrAlreadyExists. The check and the
	// write are a single conditional operation, not read-then-write.
	Create(ctx context.Context, user types.User) error

	// UpdateFields applies a partial update to an existing record and
	// returns the full post-update record, or ErrNotFound if the
	// record is gone. Fields the update does not provide are left
	// untouched.
	UpdateFields(ctx context.Context, email string, update types.UserUpdate) (types.User, error)
}
