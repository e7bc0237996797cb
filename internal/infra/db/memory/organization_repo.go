package memory

import (
	"context"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

type OrganizationRepo struct {
	store *Store
}

func NewOrganizationRepo(store *Store) *OrganizationRepo {
	return &OrganizationRepo{store: store}
}

func (r *OrganizationRepo) FindByID(_ context.Context, tx repository.Tx, id string) (*model.Organization, error) {
	defer r.store.lock(tx)()
	org, ok := r.store.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (r *OrganizationRepo) CountOwnedBy(_ context.Context, tx repository.Tx, userID string) (int, error) {
	defer r.store.lock(tx)()
	n := 0
	for _, org := range r.store.orgs {
		if org.OwnerID == userID {
			n++
		}
	}
	return n, nil
}

func (r *OrganizationRepo) CountJoinedBy(_ context.Context, tx repository.Tx, userID string) (int, error) {
	defer r.store.lock(tx)()
	n := 0
	for _, org := range r.store.orgs {
		for _, m := range org.Members {
			if m.UserID == userID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *OrganizationRepo) MemberCount(_ context.Context, tx repository.Tx, orgID string) (int, error) {
	defer r.store.lock(tx)()
	org, ok := r.store.orgs[orgID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return org.MemberCount(), nil
}
