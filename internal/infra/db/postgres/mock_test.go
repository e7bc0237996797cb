//go:build !integration

package postgres

import (
	"context"
	"time"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerUserRepo mocks the database repository that the decorator wraps.
type mockInnerUserRepo struct {
	SaveFunc                func(ctx context.Context, tx repository.Tx, u *model.UserProfile) error
	FindByIDFunc            func(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error)
	CountUsersFunc          func(ctx context.Context, tx repository.Tx) (int, error)
	ListExpiringMembersFunc func(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.UserProfile, error)
}

func (m *mockInnerUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.UserProfile) error {
	return m.SaveFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	return m.CountUsersFunc(ctx, tx)
}
func (m *mockInnerUserRepo) ListExpiringMembers(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.UserProfile, error) {
	return m.ListExpiringMembersFunc(ctx, tx, withinDays)
}

// mockRedisClient mocks the cache.
type mockRedisClient struct {
	PingFunc func(ctx context.Context) error
	SetFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc  func(ctx context.Context, key string) (string, error)
	DelFunc  func(ctx context.Context, keys ...string) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", nil
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}
func (m *mockRedisClient) Close() error { return nil }
