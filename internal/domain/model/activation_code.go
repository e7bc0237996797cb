package model

import (
	"time"

	"membership-entitlement/internal/domain"

	"github.com/google/uuid"
)

// CodeKind names the membership kind an activation code grants on redemption.
type CodeKind string

const (
	CodeKindMember         CodeKind = "member"
	CodeKindAdvancedMember CodeKind = "advanced_member"
)

func (k CodeKind) Valid() bool {
	return k == CodeKindMember || k == CodeKindAdvancedMember
}

// Tier returns the tier this kind grants.
func (k CodeKind) Tier() Tier {
	if k == CodeKindAdvancedMember {
		return TierAdvancedMember
	}
	return TierMember
}

// ActivationCode is a redeemable membership grant. The record is immutable
// except for UsedCount (monotonically increasing, never past MaxUses) and
// IsActive (settable false once, by revocation). Records are never deleted.
type ActivationCode struct {
	ID   string
	Code string
	Kind CodeKind
	// MaxUses is how many distinct redemptions the code allows. Always >= 1.
	MaxUses   int
	UsedCount int
	// MembershipDurationDays is the length of the granted membership;
	// 0 means the grant is permanent.
	MembershipDurationDays int
	// ExpiresAt bounds redeemability of the code itself; nil = never expires.
	ExpiresAt *time.Time
	IsActive  bool
	CreatedAt time.Time
}

// NewActivationCode validates and constructs a code record.
func NewActivationCode(id, code string, kind CodeKind, maxUses, durationDays int, expiresAt *time.Time) (*ActivationCode, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if code == "" || !kind.Valid() || maxUses < 1 || durationDays < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &ActivationCode{
		ID:                     id,
		Code:                   code,
		Kind:                   kind,
		MaxUses:                maxUses,
		UsedCount:              0,
		MembershipDurationDays: durationDays,
		ExpiresAt:              expiresAt,
		IsActive:               true,
		CreatedAt:              time.Now(),
	}, nil
}

// Redeemable reports whether a redemption may consume a use right now.
func (c *ActivationCode) Redeemable(now time.Time) bool {
	if !c.IsActive || c.UsedCount >= c.MaxUses {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// Expired reports whether the code's own expiry has passed.
func (c *ActivationCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// GrantExpiry computes the membership expiry a redemption at `now` grants.
// nil when the code grants a permanent membership.
func (c *ActivationCode) GrantExpiry(now time.Time) *time.Time {
	if c.MembershipDurationDays <= 0 {
		return nil
	}
	t := now.Add(time.Duration(c.MembershipDurationDays) * 24 * time.Hour)
	return &t
}

// TerminalError classifies a non-redeemable code into its terminal error.
// Precedence: revoked beats expired beats exhausted. Returns nil when the
// code is still redeemable.
func (c *ActivationCode) TerminalError(now time.Time) error {
	switch {
	case !c.IsActive:
		return domain.ErrCodeInactive
	case c.Expired(now):
		return domain.ErrCodeExpired
	case c.UsedCount >= c.MaxUses:
		return domain.ErrCodeExhausted
	default:
		return nil
	}
}
