// Package memory is the in-memory reference implementation of the
// persistence ports. It honors the same contracts as the Postgres
// implementation: the use-counter guard is checked and bumped under one
// lock, and WithTx snapshots state so a failed transaction leaves nothing
// behind. Intended for tests and embedded use.
package memory

import (
	"context"
	"sync"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
)

// Store holds all entities behind a single mutex. The mutex is the memory
// stand-in for the database's row-level atomicity.
type Store struct {
	mu          sync.Mutex
	codes       map[string]*model.ActivationCode // by code string
	users       map[string]*model.UserProfile    // by id
	orgs        map[string]*model.Organization   // by id
	redemptions []*model.Redemption
}

func NewStore() *Store {
	return &Store{
		codes: make(map[string]*model.ActivationCode),
		users: make(map[string]*model.UserProfile),
		orgs:  make(map[string]*model.Organization),
	}
}

// memTx marks a callback already holding the store lock.
type memTx struct{}

// lock acquires the store lock unless tx shows it is already held.
func (s *Store) lock(tx repository.Tx) func() {
	if _, held := tx.(memTx); held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// snapshot deep-copies mutable state for rollback.
func (s *Store) snapshot() *Store {
	snap := &Store{
		codes:       make(map[string]*model.ActivationCode, len(s.codes)),
		users:       make(map[string]*model.UserProfile, len(s.users)),
		orgs:        s.orgs, // read-only in this core
		redemptions: append([]*model.Redemption(nil), s.redemptions...),
	}
	for k, v := range s.codes {
		c := *v
		snap.codes[k] = &c
	}
	for k, v := range s.users {
		u := *v
		snap.users[k] = &u
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.codes = snap.codes
	s.users = snap.users
	s.redemptions = snap.redemptions
}

var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager serializes callbacks on the store lock and rolls the store back
// when the callback fails.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) *TxManager { return &TxManager{store: store} }

func (m *TxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx, memTx{}); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// SeedUser inserts a profile directly, bypassing ports. Test helper.
func (s *Store) SeedUser(u *model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// SeedOrganization inserts an organization directly. Test helper.
func (s *Store) SeedOrganization(o *model.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[o.ID] = o
}
