package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
)

var _ repository.ActivationCodeRepository = (*ActivationCodeRepo)(nil)

type ActivationCodeRepo struct {
	store *Store
}

func NewActivationCodeRepo(store *Store) *ActivationCodeRepo {
	return &ActivationCodeRepo{store: store}
}

func (r *ActivationCodeRepo) Create(_ context.Context, tx repository.Tx, ac *model.ActivationCode) error {
	defer r.store.lock(tx)()
	if _, ok := r.store.codes[ac.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *ac
	r.store.codes[ac.Code] = &cp
	return nil
}

func (r *ActivationCodeRepo) FindByCode(_ context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	defer r.store.lock(tx)()
	ac, ok := r.store.codes[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ac
	return &cp, nil
}

func (r *ActivationCodeRepo) ListActive(_ context.Context, tx repository.Tx, filter string) ([]*model.ActivationCode, error) {
	defer r.store.lock(tx)()
	needle := strings.ToLower(filter)
	var out []*model.ActivationCode
	for _, ac := range r.store.codes {
		if !ac.IsActive {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(ac.Code), needle) {
			continue
		}
		cp := *ac
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// ConsumeUse checks the guard and bumps the counter under the store lock,
// mirroring the conditional UPDATE of the Postgres implementation.
func (r *ActivationCodeRepo) ConsumeUse(_ context.Context, tx repository.Tx, code string, now time.Time) (*model.ActivationCode, error) {
	defer r.store.lock(tx)()
	ac, ok := r.store.codes[code]
	if !ok || !ac.Redeemable(now) {
		return nil, domain.ErrNotFound
	}
	ac.UsedCount++
	cp := *ac
	return &cp, nil
}

func (r *ActivationCodeRepo) Revoke(_ context.Context, tx repository.Tx, code string) error {
	defer r.store.lock(tx)()
	ac, ok := r.store.codes[code]
	if !ok {
		return domain.ErrNotFound
	}
	ac.IsActive = false
	return nil
}
