package model

import (
	"time"

	"membership-entitlement/internal/domain"

	"github.com/google/uuid"
)

// OrgRole is a member's role within an organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleMember OrgRole = "member"
)

// OrgMember links a user to an organization with a role.
type OrgMember struct {
	UserID   string
	Role     OrgRole
	JoinedAt time.Time
}

// Organization is owned by one user and holds a set of members. Membership
// mutation happens outside this core; the core only answers whether an action
// is allowed and what the ceilings are.
type Organization struct {
	ID        string
	OwnerID   string
	Name      string
	Members   []OrgMember
	CreatedAt time.Time
}

func NewOrganization(id, ownerID, name string) (*Organization, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if ownerID == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Organization{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Members:   []OrgMember{{UserID: ownerID, Role: OrgRoleOwner, JoinedAt: now}},
		CreatedAt: now,
	}, nil
}

func (o *Organization) MemberCount() int { return len(o.Members) }
