package repository

import (
	"context"

	"membership-entitlement/internal/domain/model"
)

// OrganizationRepository is the read side of organization membership as this
// core needs it: the counts the capacity policy consumes. Membership
// mutation is owned by the external organization service.
type OrganizationRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Organization, error)
	// CountOwnedBy counts organizations whose owner is the given user.
	CountOwnedBy(ctx context.Context, tx Tx, userID string) (int, error)
	// CountJoinedBy counts organizations where the user appears as a member
	// in any role, ownership included.
	CountJoinedBy(ctx context.Context, tx Tx, userID string) (int, error)
	MemberCount(ctx context.Context, tx Tx, orgID string) (int, error)
}
