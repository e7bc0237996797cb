package model

import (
	"time"

	"membership-entitlement/internal/domain"

	"github.com/google/uuid"
)

// UserProfile is the read model of a user as seen by the entitlement core.
// Identity and the tier flags are owned externally (billing/admin actions);
// the core reads them and mutates only the membership grant on redemption.
type UserProfile struct {
	ID               string
	Username         string
	IsMember         bool
	IsAdvancedMember bool
	IsAdmin          bool
	// MemberExpiresAt is the expiry of the highest granted membership kind.
	// nil means the grant is permanent (or that no membership flag is set).
	MemberExpiresAt *time.Time
	CreatedAt       time.Time
}

func NewUserProfile(id, username string) (*UserProfile, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if username == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &UserProfile{
		ID:        id,
		Username:  username,
		CreatedAt: time.Now(),
	}, nil
}

func (u *UserProfile) IsZero() bool { return u == nil || u.ID == "" }

// MembershipGrant is the outcome of applying a redemption to a profile.
type MembershipGrant struct {
	Tier      Tier
	ExpiresAt *time.Time // nil = permanent
}

// grantedTier returns the tier currently held through a grant (admin flag is
// not a grant and is ignored here). An expired grant counts as no grant.
func (u *UserProfile) grantedTier(now time.Time) Tier {
	if u.MemberExpiresAt != nil && !now.Before(*u.MemberExpiresAt) {
		return TierExplorer
	}
	switch {
	case u.IsAdvancedMember:
		return TierAdvancedMember
	case u.IsMember:
		return TierMember
	default:
		return TierExplorer
	}
}

// ApplyGrant applies a redeemed code of the given kind to the profile and
// returns the resulting grant. Redemption never downgrades or shortens:
//   - an existing equal-or-higher grant with a later (or permanent) expiry wins;
//   - otherwise the new kind and expiry replace the stored grant.
//
// `until` nil means the new grant is permanent. The admin flag is untouched.
func (u *UserProfile) ApplyGrant(kind CodeKind, until *time.Time, now time.Time) MembershipGrant {
	newTier := kind.Tier()
	current := u.grantedTier(now)

	keep := false
	if current.AtLeast(newTier) && current != TierExplorer {
		switch {
		case u.MemberExpiresAt == nil:
			// existing grant is permanent
			keep = true
		case until == nil:
			// new grant is permanent; only an equal-or-higher permanent keeps
			keep = false
		default:
			keep = !u.MemberExpiresAt.Before(*until)
		}
		if current.rank() > newTier.rank() {
			// never downgrade a live higher grant
			keep = true
		}
	}

	if !keep {
		u.IsMember = true
		u.IsAdvancedMember = newTier == TierAdvancedMember
		u.MemberExpiresAt = until
	}

	granted := u.grantedTier(now)
	if granted == TierExplorer {
		// freshly applied grant cannot be expired; fall back to the new tier
		granted = newTier
	}
	return MembershipGrant{Tier: granted, ExpiresAt: u.MemberExpiresAt}
}
