//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
)

func TestRedemptionRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewRedemptionRepo(testPool)
	codes := NewActivationCodeRepo(testPool)
	users := NewUserRepo(testPool)

	t.Run("should record and list redemptions newest first", func(t *testing.T) {
		cleanup(t)

		ac, _ := model.NewActivationCode("", "TRAIL-CODE-0000-0001", model.CodeKindMember, 5, 30, nil)
		if err := codes.Create(ctx, repository.NoTX, ac); err != nil {
			t.Fatalf("create code: %v", err)
		}
		for _, id := range []string{"u1", "u2"} {
			u := &model.UserProfile{ID: id, Username: id, CreatedAt: time.Now()}
			if err := users.Save(ctx, repository.NoTX, u); err != nil {
				t.Fatalf("save user: %v", err)
			}
		}

		first := model.NewRedemption(ac.Code, "u1", ac.Kind, nil, time.Now().Add(-time.Minute))
		second := model.NewRedemption(ac.Code, "u2", ac.Kind, nil, time.Now())
		if err := repo.Save(ctx, repository.NoTX, first); err != nil {
			t.Fatalf("save first: %v", err)
		}
		if err := repo.Save(ctx, repository.NoTX, second); err != nil {
			t.Fatalf("save second: %v", err)
		}

		out, err := repo.ListByCode(ctx, repository.NoTX, ac.Code)
		if err != nil {
			t.Fatalf("ListByCode failed: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("expected 2 records, got %d", len(out))
		}
		if out[0].UserID != "u2" || out[1].UserID != "u1" {
			t.Errorf("expected newest first, got %s then %s", out[0].UserID, out[1].UserID)
		}
	})

	t.Run("empty trail", func(t *testing.T) {
		cleanup(t)
		out, err := repo.ListByCode(ctx, repository.NoTX, "NOPE")
		if err != nil {
			t.Fatalf("ListByCode failed: %v", err)
		}
		if len(out) != 0 {
			t.Errorf("expected no records, got %d", len(out))
		}
	})
}
