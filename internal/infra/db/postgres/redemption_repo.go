package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
	"membership-entitlement/internal/infra/metrics"
)

var _ repository.RedemptionRepository = (*redemptionRepo)(nil)

type redemptionRepo struct {
	pool *pgxpool.Pool
}

func NewRedemptionRepo(pool *pgxpool.Pool) repository.RedemptionRepository {
	return &redemptionRepo{pool: pool}
}

func (r *redemptionRepo) Save(ctx context.Context, tx repository.Tx, rec *model.Redemption) error {
	const q = `
INSERT INTO redemptions (id, code, user_id, kind, granted_until, redeemed_at)
VALUES ($1,$2,$3,$4,$5,$6);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		rec.ID, rec.Code, rec.UserID, string(rec.Kind), rec.GrantedUntil, rec.RedeemedAt,
	)
	if err != nil {
		metrics.IncDBError("redemption.save")
		return fmt.Errorf("save redemption: %w", err)
	}
	return nil
}

func (r *redemptionRepo) ListByCode(ctx context.Context, tx repository.Tx, code string) ([]*model.Redemption, error) {
	const q = `
SELECT id, code, user_id, kind, granted_until, redeemed_at
  FROM redemptions
 WHERE code = $1
 ORDER BY redeemed_at DESC, id DESC;
`
	rows, err := pickRows(ctx, r.pool, tx, q, code)
	if err != nil {
		metrics.IncDBError("redemption.list")
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var out []*model.Redemption
	for rows.Next() {
		var (
			rec  model.Redemption
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.Code, &rec.UserID, &kind, &rec.GrantedUntil, &rec.RedeemedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		rec.Kind = model.CodeKind(kind)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
