// File: internal/usecase/capacity_uc.go
package usecase

import (
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/infra/metrics"
)

// Unlimited marks a ceiling that is not enforced (admin tier).
const Unlimited = -1

// Tier-indexed ceilings. These are policy lookups over caller-supplied
// counts, not database queries; the external organization store computes the
// counts.
var (
	ownedOrgCeiling = map[model.Tier]int{
		model.TierExplorer:       0,
		model.TierMember:         1,
		model.TierAdvancedMember: 2,
		model.TierAdmin:          Unlimited,
	}
	joinedOrgCeiling = map[model.Tier]int{
		model.TierExplorer:       1,
		model.TierMember:         3,
		model.TierAdvancedMember: 10,
		model.TierAdmin:          Unlimited,
	}
	// memberCeiling is keyed by the owner's tier. The explorer entry is a
	// defensive default: organizations should not exist under explorer tier.
	memberCeiling = map[model.Tier]int{
		model.TierExplorer:       50,
		model.TierMember:         100,
		model.TierAdvancedMember: 500,
		model.TierAdmin:          Unlimited,
	}
)

// CreateDecision answers "may this user create another organization".
// A false answer is an informational policy result, not an error.
type CreateDecision struct {
	CanCreate bool
	Reason    string
}

// JoinDecision answers "may this user join another organization".
type JoinDecision struct {
	CanJoin bool
	Limit   int // Unlimited for admin
	Current int
	Reason  string
}

// CapacityUseCase computes tier-gated organization ceilings.
type CapacityUseCase interface {
	CanCreate(tier model.Tier, ownedCount int) CreateDecision
	CanJoin(tier model.Tier, joinedCount int) JoinDecision
	MemberLimit(ownerTier model.Tier) int
}

var _ CapacityUseCase = (*capacityUC)(nil)

type capacityUC struct{}

func NewCapacityUseCase() *capacityUC { return &capacityUC{} }

func (capacityUC) CanCreate(tier model.Tier, ownedCount int) CreateDecision {
	limit := ownedOrgCeiling[tier]
	d := CreateDecision{CanCreate: true}
	switch {
	case limit == Unlimited:
	case tier == model.TierExplorer:
		d = CreateDecision{CanCreate: false, Reason: "must upgrade to member to create organizations"}
	case ownedCount >= limit:
		d = CreateDecision{CanCreate: false, Reason: "organization limit reached for your membership tier"}
	}
	metrics.IncCapacityCheck("create", d.CanCreate)
	return d
}

func (capacityUC) CanJoin(tier model.Tier, joinedCount int) JoinDecision {
	limit := joinedOrgCeiling[tier]
	d := JoinDecision{CanJoin: true, Limit: limit, Current: joinedCount}
	if limit != Unlimited && joinedCount >= limit {
		d.CanJoin = false
		d.Reason = "organization membership limit reached for your tier"
	}
	metrics.IncCapacityCheck("join", d.CanJoin)
	return d
}

func (capacityUC) MemberLimit(ownerTier model.Tier) int {
	return memberCeiling[ownerTier]
}
