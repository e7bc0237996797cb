package repository

import (
	"context"

	"membership-entitlement/internal/domain/model"
)

// UserRepository defines thread-safe methods (must support concurrent calls)
// over user profiles. The core only reads identity/tier flags and writes the
// membership grant fields.
type UserRepository interface {
	// Save persists a new or existing profile.
	Save(ctx context.Context, tx Tx, u *model.UserProfile) error
	// FindByID returns ErrNotFound if missing.
	FindByID(ctx context.Context, tx Tx, id string) (*model.UserProfile, error)

	CountUsers(ctx context.Context, tx Tx) (int, error)

	// ListExpiringMembers returns profiles whose membership grant expires
	// within the given number of days but has not expired yet.
	ListExpiringMembers(ctx context.Context, tx Tx, withinDays int) ([]*model.UserProfile, error)
}
