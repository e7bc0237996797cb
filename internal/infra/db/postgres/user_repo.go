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

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.UserProfile) error {
	const q = `
INSERT INTO users (id, username, is_member, is_advanced_member, is_admin, member_expires_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE
  SET username           = EXCLUDED.username,
      is_member          = EXCLUDED.is_member,
      is_advanced_member = EXCLUDED.is_advanced_member,
      member_expires_at  = EXCLUDED.member_expires_at;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Username, u.IsMember, u.IsAdvancedMember, u.IsAdmin, u.MemberExpiresAt, u.CreatedAt,
	)
	if err != nil {
		metrics.IncDBError("user.save")
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
	const q = `
SELECT id, username, is_member, is_advanced_member, is_admin, member_expires_at, created_at
  FROM users
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var u model.UserProfile
	if err := row.Scan(
		&u.ID, &u.Username, &u.IsMember, &u.IsAdvancedMember, &u.IsAdmin, &u.MemberExpiresAt, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncDBError("user.find")
		return nil, domain.ErrReadDatabaseRow
	}
	return &u, nil
}

func (r *userRepo) ListExpiringMembers(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.UserProfile, error) {
	const q = `
SELECT id, username, is_member, is_advanced_member, is_admin, member_expires_at, created_at
  FROM users
 WHERE is_member = TRUE
   AND member_expires_at IS NOT NULL
   AND member_expires_at > now()
   AND member_expires_at <= now() + $1 * interval '1 day';
`
	rows, err := pickRows(ctx, r.pool, tx, q, withinDays)
	if err != nil {
		metrics.IncDBError("user.list_expiring")
		return nil, fmt.Errorf("list expiring members: %w", err)
	}
	defer rows.Close()

	var out []*model.UserProfile
	for rows.Next() {
		var u model.UserProfile
		if err := rows.Scan(
			&u.ID, &u.Username, &u.IsMember, &u.IsAdvancedMember, &u.IsAdmin, &u.MemberExpiresAt, &u.CreatedAt,
		); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *userRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		metrics.IncDBError("user.count")
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
