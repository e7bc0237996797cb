// File: internal/application/entitlement_facade.go
package application

import (
	"context"
	"fmt"
	"time"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/adapter"
	"membership-entitlement/internal/domain/ports/repository"
	"membership-entitlement/internal/usecase"

	"github.com/rs/zerolog"
)

// CodeSummary is the caller-facing shape of an activation code.
type CodeSummary struct {
	Code      string         `json:"code"`
	Kind      model.CodeKind `json:"kind"`
	MaxUses   int            `json:"max_uses"`
	UsedCount int            `json:"used_count"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

// RedeemResult is the grant a successful redemption produced.
type RedeemResult struct {
	Tier      model.Tier `json:"tier"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// EntitlementFacade composes the tier resolver, the activation code engine
// and the capacity policy behind one surface. Every mutating call is
// attributable to an authenticated actor; the facade resolves the actor's
// tier once and delegates.
type EntitlementFacade struct {
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	codes    usecase.ActivationCodeUseCase
	capacity usecase.CapacityUseCase
	notifier adapter.Notifier
	log      *zerolog.Logger
}

func NewEntitlementFacade(
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	codes usecase.ActivationCodeUseCase,
	capacity usecase.CapacityUseCase,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *EntitlementFacade {
	return &EntitlementFacade{
		users:    users,
		orgs:     orgs,
		codes:    codes,
		capacity: capacity,
		notifier: notifier,
		log:      logger,
	}
}

func (f *EntitlementFacade) actor(ctx context.Context, actorID string) (*model.UserProfile, error) {
	u, err := f.users.FindByID(ctx, repository.NoTX, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor %q: %w", actorID, err)
	}
	return u, nil
}

// ResolveUserTier reports the effective tier of a user.
func (f *EntitlementFacade) ResolveUserTier(ctx context.Context, userID string) (model.Tier, error) {
	user, err := f.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return model.TierExplorer, err
	}
	return model.ResolveTier(user), nil
}

// GenerateCode mints a new activation code on behalf of actorID.
func (f *EntitlementFacade) GenerateCode(ctx context.Context, actorID string, in usecase.GenerateCodeInput) (*CodeSummary, error) {
	actor, err := f.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ac, err := f.codes.Generate(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	s := summarize(ac)
	return &s, nil
}

// RedeemCode consumes one use of the code for userID and reports the grant.
func (f *EntitlementFacade) RedeemCode(ctx context.Context, userID, code string) (*RedeemResult, error) {
	grant, err := f.codes.Redeem(ctx, code, userID)
	if err != nil {
		return nil, err
	}
	if err := f.notifier.GrantActivated(ctx, userID, *grant); err != nil {
		// best-effort: the grant is already committed
		f.log.Warn().Err(err).Str("user_id", userID).Msg("grant notification failed")
	}
	return &RedeemResult{Tier: grant.Tier, ExpiresAt: grant.ExpiresAt}, nil
}

// RevokeCode permanently disables a code. Idempotent.
func (f *EntitlementFacade) RevokeCode(ctx context.Context, actorID, code string) error {
	actor, err := f.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := f.codes.Revoke(ctx, actor, code); err != nil {
		return err
	}
	if err := f.notifier.CodeRevoked(ctx, code, actorID); err != nil {
		f.log.Warn().Err(err).Msg("revoke notification failed")
	}
	return nil
}

// ListActiveCodes returns active codes, newest first, optionally filtered by
// a case-insensitive substring of the code string.
func (f *EntitlementFacade) ListActiveCodes(ctx context.Context, query string) ([]CodeSummary, error) {
	codes, err := f.codes.ListActive(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]CodeSummary, 0, len(codes))
	for _, c := range codes {
		out = append(out, summarize(c))
	}
	return out, nil
}

// ListRedemptions returns the redemption trail of one code, newest first.
func (f *EntitlementFacade) ListRedemptions(ctx context.Context, code string) ([]*model.Redemption, error) {
	return f.codes.ListRedemptions(ctx, code)
}

// CanCreateOrganization answers whether the user may create another
// organization under their current tier.
func (f *EntitlementFacade) CanCreateOrganization(ctx context.Context, userID string) (usecase.CreateDecision, error) {
	user, err := f.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return usecase.CreateDecision{}, err
	}
	owned, err := f.orgs.CountOwnedBy(ctx, repository.NoTX, userID)
	if err != nil {
		return usecase.CreateDecision{}, err
	}
	return f.capacity.CanCreate(model.ResolveTier(user), owned), nil
}

// CanJoinMoreOrganizations answers whether the user may join another
// organization, with the ceiling and the current count.
func (f *EntitlementFacade) CanJoinMoreOrganizations(ctx context.Context, userID string) (usecase.JoinDecision, error) {
	user, err := f.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return usecase.JoinDecision{}, err
	}
	joined, err := f.orgs.CountJoinedBy(ctx, repository.NoTX, userID)
	if err != nil {
		return usecase.JoinDecision{}, err
	}
	return f.capacity.CanJoin(model.ResolveTier(user), joined), nil
}

// OrganizationMemberLimit reports the member ceiling of an organization,
// derived from its owner's tier. usecase.Unlimited means no ceiling.
func (f *EntitlementFacade) OrganizationMemberLimit(ctx context.Context, orgID string) (int, error) {
	org, err := f.orgs.FindByID(ctx, repository.NoTX, orgID)
	if err != nil {
		return 0, err
	}
	owner, err := f.users.FindByID(ctx, repository.NoTX, org.OwnerID)
	if err != nil {
		return 0, err
	}
	return f.capacity.MemberLimit(model.ResolveTier(owner)), nil
}

func summarize(c *model.ActivationCode) CodeSummary {
	return CodeSummary{
		Code:      c.Code,
		Kind:      c.Kind,
		MaxUses:   c.MaxUses,
		UsedCount: c.UsedCount,
		ExpiresAt: c.ExpiresAt,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}
