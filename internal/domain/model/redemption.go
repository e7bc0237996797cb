package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Redemption records one successful consumption of an activation code.
// Rows are append-only; together with the retained code record they form the
// audit trail of who was granted what, and when.
type Redemption struct {
	ID           string // ULID: sortable by creation time
	Code         string
	UserID       string
	Kind         CodeKind
	GrantedUntil *time.Time // nil = permanent grant
	RedeemedAt   time.Time
}

func NewRedemption(code, userID string, kind CodeKind, grantedUntil *time.Time, at time.Time) *Redemption {
	return &Redemption{
		ID:           ulid.MustNew(ulid.Timestamp(at), rand.Reader).String(),
		Code:         code,
		UserID:       userID,
		Kind:         kind,
		GrantedUntil: grantedUntil,
		RedeemedAt:   at,
	}
}
