package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
	"membership-entitlement/internal/infra/metrics"
)

var _ repository.OrganizationRepository = (*organizationRepo)(nil)

// organizationRepo reads the organization tables owned by the external
// organization service. This core never writes them.
type organizationRepo struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepo(pool *pgxpool.Pool) repository.OrganizationRepository {
	return &organizationRepo{pool: pool}
}

func (r *organizationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Organization, error) {
	const q = `SELECT id, owner_id, name, created_at FROM organizations WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var org model.Organization
	if err := row.Scan(&org.ID, &org.OwnerID, &org.Name, &org.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncDBError("organization.find")
		return nil, domain.ErrReadDatabaseRow
	}

	const mq = `
SELECT user_id, role, joined_at
  FROM organization_members
 WHERE organization_id = $1
 ORDER BY joined_at;
`
	rows, err := pickRows(ctx, r.pool, tx, mq, id)
	if err != nil {
		metrics.IncDBError("organization.members")
		return nil, fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			m    model.OrgMember
			role string
		)
		if err := rows.Scan(&m.UserID, &role, &m.JoinedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		m.Role = model.OrgRole(role)
		org.Members = append(org.Members, m)
	}
	return &org, rows.Err()
}

func (r *organizationRepo) CountOwnedBy(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	return r.scanCount(ctx, tx, `SELECT COUNT(*) FROM organizations WHERE owner_id = $1;`, "organization.count_owned", userID)
}

func (r *organizationRepo) CountJoinedBy(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	return r.scanCount(ctx, tx, `SELECT COUNT(*) FROM organization_members WHERE user_id = $1;`, "organization.count_joined", userID)
}

func (r *organizationRepo) MemberCount(ctx context.Context, tx repository.Tx, orgID string) (int, error) {
	return r.scanCount(ctx, tx, `SELECT COUNT(*) FROM organization_members WHERE organization_id = $1;`, "organization.member_count", orgID)
}

func (r *organizationRepo) scanCount(ctx context.Context, tx repository.Tx, q, op string, arg string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		metrics.IncDBError(op)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
