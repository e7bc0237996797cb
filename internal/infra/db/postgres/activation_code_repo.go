package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
	"membership-entitlement/internal/infra/metrics"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

const codeColumns = `id, code, kind, max_uses, used_count, membership_duration_days, expires_at, is_active, created_at`

func (r *activationCodeRepo) Create(ctx context.Context, tx repository.Tx, ac *model.ActivationCode) error {
	const q = `
INSERT INTO activation_codes
  (id, code, kind, max_uses, used_count, membership_duration_days, expires_at, is_active, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		ac.ID, ac.Code, string(ac.Kind), ac.MaxUses, ac.UsedCount,
		ac.MembershipDurationDays, ac.ExpiresAt, ac.IsActive, ac.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		metrics.IncDBError("activation_code.create")
		return fmt.Errorf("create activation code: %w", err)
	}
	return nil
}

func (r *activationCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	q := `SELECT ` + codeColumns + ` FROM activation_codes WHERE code = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	ac, err := scanCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncDBError("activation_code.find")
		return nil, domain.ErrReadDatabaseRow
	}
	return ac, nil
}

func (r *activationCodeRepo) ListActive(ctx context.Context, tx repository.Tx, filter string) ([]*model.ActivationCode, error) {
	q := `
SELECT ` + codeColumns + `
  FROM activation_codes
 WHERE is_active = TRUE
   AND ($1 = '' OR code ILIKE '%' || $1 || '%')
 ORDER BY created_at DESC, code;
`
	rows, err := pickRows(ctx, r.pool, tx, q, filter)
	if err != nil {
		metrics.IncDBError("activation_code.list")
		return nil, fmt.Errorf("list active codes: %w", err)
	}
	defer rows.Close()

	var out []*model.ActivationCode
	for rows.Next() {
		ac, err := scanCode(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

// ConsumeUse is the single atomic conditional update at the heart of
// redemption: the WHERE clause re-checks redeemability at the moment of the
// increment, so used_count can never pass max_uses no matter how many
// redemptions race. A miss comes back as ErrNotFound; the engine re-fetches
// and classifies.
func (r *activationCodeRepo) ConsumeUse(ctx context.Context, tx repository.Tx, code string, now time.Time) (*model.ActivationCode, error) {
	const q = `
UPDATE activation_codes
   SET used_count = used_count + 1
 WHERE code = $1
   AND is_active = TRUE
   AND used_count < max_uses
   AND (expires_at IS NULL OR expires_at > $2)
RETURNING ` + codeColumns + `;`
	row, err := pickRow(ctx, r.pool, tx, q, code, now)
	if err != nil {
		return nil, err
	}
	ac, err := scanCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncDBError("activation_code.consume")
		return nil, fmt.Errorf("consume use: %w", err)
	}
	return ac, nil
}

func (r *activationCodeRepo) Revoke(ctx context.Context, tx repository.Tx, code string) error {
	const q = `UPDATE activation_codes SET is_active = FALSE WHERE code = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, code)
	if err != nil {
		metrics.IncDBError("activation_code.revoke")
		return fmt.Errorf("revoke code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCode(row pgx.Row) (*model.ActivationCode, error) {
	var (
		ac   model.ActivationCode
		kind string
	)
	if err := row.Scan(
		&ac.ID, &ac.Code, &kind, &ac.MaxUses, &ac.UsedCount,
		&ac.MembershipDurationDays, &ac.ExpiresAt, &ac.IsActive, &ac.CreatedAt,
	); err != nil {
		return nil, err
	}
	ac.Kind = model.CodeKind(kind)
	return &ac, nil
}
