//go:build !integration

package usecase

import (
	"testing"

	"membership-entitlement/internal/domain/model"
)

func TestCanCreate(t *testing.T) {
	uc := NewCapacityUseCase()

	cases := []struct {
		name  string
		tier  model.Tier
		owned int
		want  bool
	}{
		{"explorer never creates", model.TierExplorer, 0, false},
		{"member under limit", model.TierMember, 0, true},
		{"member at limit", model.TierMember, 1, false},
		{"advanced under limit", model.TierAdvancedMember, 1, true},
		{"advanced at limit", model.TierAdvancedMember, 2, false},
		{"admin ignores count", model.TierAdmin, 1000, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := uc.CanCreate(tc.tier, tc.owned)
			if d.CanCreate != tc.want {
				t.Errorf("expected CanCreate=%v, got %v (%s)", tc.want, d.CanCreate, d.Reason)
			}
			if !d.CanCreate && d.Reason == "" {
				t.Error("a denial must carry a reason")
			}
		})
	}

	t.Run("explorer denial names the upgrade path", func(t *testing.T) {
		d := uc.CanCreate(model.TierExplorer, 0)
		if d.Reason != "must upgrade to member to create organizations" {
			t.Errorf("unexpected reason %q", d.Reason)
		}
	})
}

func TestCanJoin(t *testing.T) {
	uc := NewCapacityUseCase()

	cases := []struct {
		name      string
		tier      model.Tier
		joined    int
		want      bool
		wantLimit int
	}{
		{"explorer under limit", model.TierExplorer, 0, true, 1},
		{"explorer at limit", model.TierExplorer, 1, false, 1},
		{"member at limit", model.TierMember, 3, false, 3},
		{"advanced under limit", model.TierAdvancedMember, 9, true, 10},
		{"advanced at limit", model.TierAdvancedMember, 10, false, 10},
		{"admin ignores count", model.TierAdmin, 1000, true, Unlimited},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := uc.CanJoin(tc.tier, tc.joined)
			if d.CanJoin != tc.want {
				t.Errorf("expected CanJoin=%v, got %v (%s)", tc.want, d.CanJoin, d.Reason)
			}
			if d.Limit != tc.wantLimit {
				t.Errorf("expected limit %d, got %d", tc.wantLimit, d.Limit)
			}
			if d.Current != tc.joined {
				t.Errorf("expected current %d echoed, got %d", tc.joined, d.Current)
			}
		})
	}
}

func TestMemberLimit(t *testing.T) {
	uc := NewCapacityUseCase()
	cases := map[model.Tier]int{
		model.TierExplorer:       50,
		model.TierMember:         100,
		model.TierAdvancedMember: 500,
		model.TierAdmin:          Unlimited,
	}
	for tier, want := range cases {
		if got := uc.MemberLimit(tier); got != want {
			t.Errorf("tier %s: expected member limit %d, got %d", tier, want, got)
		}
	}
}
