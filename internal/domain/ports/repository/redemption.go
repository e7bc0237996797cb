package repository

import (
	"context"

	"membership-entitlement/internal/domain/model"
)

// RedemptionRepository stores the append-only redemption trail.
type RedemptionRepository interface {
	Save(ctx context.Context, tx Tx, r *model.Redemption) error
	// ListByCode returns redemptions of one code, newest first.
	ListByCode(ctx context.Context, tx Tx, code string) ([]*model.Redemption, error)
}
