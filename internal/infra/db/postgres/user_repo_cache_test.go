//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

func TestUserRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	user := &model.UserProfile{ID: "user-123", Username: "alice", IsMember: true}

	t.Run("FindByID should fetch from DB and set cache on miss", func(t *testing.T) {
		innerCalled := false
		var setKey string

		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil // cache miss
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				return nil
			},
		}
		mockInner := &mockInnerUserRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
				innerCalled = true
				return user, nil
			},
		}

		decorator := NewUserRepoCacheDecorator(mockInner, mockRedis, time.Hour)

		result, err := decorator.FindByID(ctx, repository.NoTX, "user-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !innerCalled {
			t.Error("inner repository should be called on a cache miss")
		}
		if setKey != "user:id:user-123" {
			t.Errorf("expected the cache warmed under the user key, got %q", setKey)
		}
		if result == nil || result.ID != "user-123" {
			t.Error("did not return the correct user from the inner repository")
		}
	})

	t.Run("FindByID should serve from cache on hit", func(t *testing.T) {
		cached, _ := json.Marshal(user)
		innerCalled := false

		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(cached), nil
			},
		}
		mockInner := &mockInnerUserRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
				innerCalled = true
				return user, nil
			},
		}

		decorator := NewUserRepoCacheDecorator(mockInner, mockRedis, time.Hour)

		result, err := decorator.FindByID(ctx, repository.NoTX, "user-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if result == nil || !result.IsMember {
			t.Error("cached profile lost its fields")
		}
	})

	t.Run("transactional reads bypass the cache", func(t *testing.T) {
		cacheTouched := false
		innerCalled := false

		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				cacheTouched = true
				return "", redis.Nil
			},
		}
		mockInner := &mockInnerUserRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
				innerCalled = true
				return user, nil
			},
		}

		decorator := NewUserRepoCacheDecorator(mockInner, mockRedis, time.Hour)

		if _, err := decorator.FindByID(ctx, struct{ tx string }{"fake"}, "user-123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cacheTouched {
			t.Error("a transactional read must never consult the cache")
		}
		if !innerCalled {
			t.Error("inner repository should be called")
		}
	})

	t.Run("Save should invalidate the cache key", func(t *testing.T) {
		var deleted []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deleted = append(deleted, keys...)
				return nil
			},
		}
		mockInner := &mockInnerUserRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, u *model.UserProfile) error {
				return nil
			},
		}

		decorator := NewUserRepoCacheDecorator(mockInner, mockRedis, time.Hour)

		if err := decorator.Save(ctx, repository.NoTX, user); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deleted) != 1 || deleted[0] != "user:id:user-123" {
			t.Errorf("expected the user key invalidated, got %v", deleted)
		}
	})
}
