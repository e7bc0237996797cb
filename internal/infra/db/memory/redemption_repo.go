package memory

import (
	"context"
	"sort"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
)

var _ repository.RedemptionRepository = (*RedemptionRepo)(nil)

type RedemptionRepo struct {
	store *Store
}

func NewRedemptionRepo(store *Store) *RedemptionRepo { return &RedemptionRepo{store: store} }

func (r *RedemptionRepo) Save(_ context.Context, tx repository.Tx, rec *model.Redemption) error {
	defer r.store.lock(tx)()
	cp := *rec
	r.store.redemptions = append(r.store.redemptions, &cp)
	return nil
}

func (r *RedemptionRepo) ListByCode(_ context.Context, tx repository.Tx, code string) ([]*model.Redemption, error) {
	defer r.store.lock(tx)()
	var out []*model.Redemption
	for _, rec := range r.store.redemptions {
		if rec.Code == code {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RedeemedAt.Equal(out[j].RedeemedAt) {
			return out[i].RedeemedAt.After(out[j].RedeemedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
