package memory

import (
	"context"
	"time"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepo { return &UserRepo{store: store} }

func (r *UserRepo) Save(_ context.Context, tx repository.Tx, u *model.UserProfile) error {
	defer r.store.lock(tx)()
	cp := *u
	r.store.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
	defer r.store.lock(tx)()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) CountUsers(_ context.Context, tx repository.Tx) (int, error) {
	defer r.store.lock(tx)()
	return len(r.store.users), nil
}

func (r *UserRepo) ListExpiringMembers(_ context.Context, tx repository.Tx, withinDays int) ([]*model.UserProfile, error) {
	defer r.store.lock(tx)()
	now := time.Now()
	limit := now.Add(time.Duration(withinDays) * 24 * time.Hour)
	var out []*model.UserProfile
	for _, u := range r.store.users {
		if !u.IsMember || u.MemberExpiresAt == nil {
			continue
		}
		if u.MemberExpiresAt.After(now) && !u.MemberExpiresAt.After(limit) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}
