package model

import (
	"math"
	"time"
)

// Tier is the single effective membership level of a user. Exactly one tier
// applies at any time, resolved by strict precedence over the profile flags.
type Tier string

const (
	TierExplorer       Tier = "explorer"
	TierMember         Tier = "member"
	TierAdvancedMember Tier = "advanced_member"
	TierAdmin          Tier = "admin"
)

// rank orders tiers for precedence comparisons. Higher wins.
func (t Tier) rank() int {
	switch t {
	case TierAdmin:
		return 3
	case TierAdvancedMember:
		return 2
	case TierMember:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t grants everything other does.
func (t Tier) AtLeast(other Tier) bool { return t.rank() >= other.rank() }

// ResolveTier maps a profile's boolean flags to the effective tier.
// Precedence: admin > advanced_member > member > explorer. Pure, total,
// no failure modes: an unknown combination can only fall through to explorer.
func ResolveTier(u *UserProfile) Tier {
	switch {
	case u == nil:
		return TierExplorer
	case u.IsAdmin:
		return TierAdmin
	case u.IsAdvancedMember:
		return TierAdvancedMember
	case u.IsMember:
		return TierMember
	default:
		return TierExplorer
	}
}

// ExpiryInDays reports how many whole days remain until expiresAt, rounding
// up and clamping at zero ("expired today or earlier"). The second return is
// false when expiresAt is nil, meaning the grant never expires.
func ExpiryInDays(now time.Time, expiresAt *time.Time) (int, bool) {
	if expiresAt == nil {
		return 0, false
	}
	days := int(math.Ceil(expiresAt.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days, true
}

// IsExpiringSoon reports whether a grant expires within the next 7 days but
// has not expired yet.
func IsExpiringSoon(now time.Time, expiresAt *time.Time) bool {
	days, ok := ExpiryInDays(now, expiresAt)
	return ok && days > 0 && days <= 7
}
