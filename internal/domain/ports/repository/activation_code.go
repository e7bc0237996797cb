package repository

import (
	"context"
	"time"

	"membership-entitlement/internal/domain/model"
)

// ActivationCodeRepository is the port for activation code persistence.
// Implementations must be safe for concurrent callers across process
// instances; ConsumeUse is the only arbiter of the use counter.
type ActivationCodeRepository interface {
	// Create persists a new code. Returns ErrAlreadyExists when the code
	// string collides with an existing row (unique index on code).
	Create(ctx context.Context, tx Tx, code *model.ActivationCode) error

	// FindByCode returns the record regardless of state, ErrNotFound if absent.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.ActivationCode, error)

	// ListActive returns codes with is_active = true, newest first, optionally
	// filtered by a case-insensitive substring match on the code string.
	ListActive(ctx context.Context, tx Tx, filter string) ([]*model.ActivationCode, error)

	// ConsumeUse increments used_count by exactly one, but only if the row
	// still satisfies redeemability (active, not expired at `now`, uses left)
	// at the moment of the update. It is a single atomic conditional update:
	// a plain read-then-write is not an acceptable implementation. Returns
	// the post-increment record, or ErrNotFound when the guard matched no
	// row, either absent or no longer redeemable; the caller re-fetches
	// and classifies.
	ConsumeUse(ctx context.Context, tx Tx, code string, now time.Time) (*model.ActivationCode, error)

	// Revoke sets is_active = false. Idempotent: revoking an already-revoked
	// code succeeds. Returns ErrNotFound when the code does not exist.
	Revoke(ctx context.Context, tx Tx, code string) error
}
