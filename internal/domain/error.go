package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")

	// Terminal redemption failures. Each maps to a distinct caller-facing
	// reason and is never retried automatically.
	ErrCodeInactive  = errors.New("activation code has been revoked")
	ErrCodeExpired   = errors.New("activation code has expired")
	ErrCodeExhausted = errors.New("activation code has no uses left")
)
