//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"membership-entitlement/internal/domain"
)

func ptr(t time.Time) *time.Time { return &t }

// --- TierResolver tests ---

func TestResolveTier(t *testing.T) {
	cases := []struct {
		name string
		user *UserProfile
		want Tier
	}{
		{"nil profile", nil, TierExplorer},
		{"no flags", &UserProfile{}, TierExplorer},
		{"member", &UserProfile{IsMember: true}, TierMember},
		{"advanced", &UserProfile{IsAdvancedMember: true}, TierAdvancedMember},
		{"admin dominates member", &UserProfile{IsAdmin: true, IsMember: true}, TierAdmin},
		{"admin dominates advanced", &UserProfile{IsAdmin: true, IsAdvancedMember: true, IsMember: true}, TierAdmin},
		{"advanced dominates member", &UserProfile{IsAdvancedMember: true, IsMember: true}, TierAdvancedMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveTier(tc.user); got != tc.want {
				t.Errorf("expected tier %s, but got %s", tc.want, got)
			}
		})
	}
}

func TestExpiryInDays(t *testing.T) {
	now := time.Now()

	t.Run("no expiry reports not-set", func(t *testing.T) {
		if _, ok := ExpiryInDays(now, nil); ok {
			t.Error("expected ok=false for nil expiry")
		}
	})

	t.Run("past expiry clamps to zero", func(t *testing.T) {
		days, ok := ExpiryInDays(now, ptr(now.Add(-24*time.Hour)))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if days != 0 {
			t.Errorf("expected 0 days, but got %d", days)
		}
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		days, _ := ExpiryInDays(now, ptr(now.Add(36*time.Hour)))
		if days != 2 {
			t.Errorf("expected 2 days, but got %d", days)
		}
	})

	t.Run("exact day count", func(t *testing.T) {
		days, _ := ExpiryInDays(now, ptr(now.Add(7*24*time.Hour)))
		if days != 7 {
			t.Errorf("expected 7 days, but got %d", days)
		}
	})
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Now()
	if IsExpiringSoon(now, nil) {
		t.Error("permanent grant must never be expiring soon")
	}
	if IsExpiringSoon(now, ptr(now.Add(-time.Hour))) {
		t.Error("already expired grant is not 'expiring soon'")
	}
	if !IsExpiringSoon(now, ptr(now.Add(3*24*time.Hour))) {
		t.Error("3 days out should be expiring soon")
	}
	if IsExpiringSoon(now, ptr(now.Add(10*24*time.Hour))) {
		t.Error("10 days out should not be expiring soon")
	}
}

// --- UserProfile grant tests ---

func TestApplyGrant(t *testing.T) {
	now := time.Now()
	in30 := ptr(now.Add(30 * 24 * time.Hour))
	in60 := ptr(now.Add(60 * 24 * time.Hour))

	t.Run("fresh member grant", func(t *testing.T) {
		u := &UserProfile{ID: "u1"}
		g := u.ApplyGrant(CodeKindMember, in30, now)
		if g.Tier != TierMember {
			t.Errorf("expected member, got %s", g.Tier)
		}
		if g.ExpiresAt == nil || !g.ExpiresAt.Equal(*in30) {
			t.Errorf("expected expiry %v, got %v", in30, g.ExpiresAt)
		}
	})

	t.Run("later expiry extends, earlier does not shorten", func(t *testing.T) {
		u := &UserProfile{ID: "u1", IsMember: true, MemberExpiresAt: in30}
		g := u.ApplyGrant(CodeKindMember, in60, now)
		if !g.ExpiresAt.Equal(*in60) {
			t.Errorf("expected extended expiry %v, got %v", in60, g.ExpiresAt)
		}
		g = u.ApplyGrant(CodeKindMember, in30, now)
		if !g.ExpiresAt.Equal(*in60) {
			t.Errorf("expected expiry to stay %v, got %v", in60, g.ExpiresAt)
		}
	})

	t.Run("permanent grant always wins", func(t *testing.T) {
		u := &UserProfile{ID: "u1", IsMember: true, MemberExpiresAt: in30}
		g := u.ApplyGrant(CodeKindMember, nil, now)
		if g.ExpiresAt != nil {
			t.Errorf("expected permanent grant, got %v", g.ExpiresAt)
		}
		// a timed grant must not replace an existing permanent one
		g = u.ApplyGrant(CodeKindMember, in60, now)
		if g.ExpiresAt != nil {
			t.Errorf("permanent grant was shortened to %v", g.ExpiresAt)
		}
	})

	t.Run("member code never downgrades live advanced grant", func(t *testing.T) {
		u := &UserProfile{ID: "u1", IsMember: true, IsAdvancedMember: true, MemberExpiresAt: in30}
		g := u.ApplyGrant(CodeKindMember, in60, now)
		if g.Tier != TierAdvancedMember {
			t.Errorf("expected advanced_member kept, got %s", g.Tier)
		}
		if !g.ExpiresAt.Equal(*in30) {
			t.Errorf("advanced expiry changed by member code: %v", g.ExpiresAt)
		}
	})

	t.Run("advanced code upgrades member", func(t *testing.T) {
		u := &UserProfile{ID: "u1", IsMember: true, MemberExpiresAt: in60}
		g := u.ApplyGrant(CodeKindAdvancedMember, in30, now)
		if g.Tier != TierAdvancedMember {
			t.Errorf("expected upgrade to advanced, got %s", g.Tier)
		}
		if !g.ExpiresAt.Equal(*in30) {
			t.Errorf("expected new expiry %v, got %v", in30, g.ExpiresAt)
		}
	})

	t.Run("expired grant is replaced", func(t *testing.T) {
		u := &UserProfile{ID: "u1", IsMember: true, IsAdvancedMember: true, MemberExpiresAt: ptr(now.Add(-time.Hour))}
		g := u.ApplyGrant(CodeKindMember, in30, now)
		if g.Tier != TierMember {
			t.Errorf("expected member replacing expired advanced, got %s", g.Tier)
		}
		if u.IsAdvancedMember {
			t.Error("expected stale advanced flag cleared")
		}
	})

	t.Run("admin flag untouched", func(t *testing.T) {
		u := &UserProfile{ID: "u1", IsAdmin: true}
		u.ApplyGrant(CodeKindMember, in30, now)
		if !u.IsAdmin {
			t.Error("admin flag must survive a grant")
		}
		if ResolveTier(u) != TierAdmin {
			t.Error("admin still dominates after a grant")
		}
	})
}

// --- ActivationCode tests ---

func TestNewActivationCode(t *testing.T) {
	t.Run("valid code", func(t *testing.T) {
		ac, err := NewActivationCode("", "ABCD-EFGH-JKLM-NPQR", CodeKindMember, 2, 30, nil)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if ac.ID == "" {
			t.Error("expected generated ID")
		}
		if !ac.IsActive || ac.UsedCount != 0 {
			t.Error("new code must be active with zero uses")
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		cases := []struct {
			name     string
			code     string
			kind     CodeKind
			maxUses  int
			duration int
		}{
			{"empty code", "", CodeKindMember, 1, 0},
			{"zero max uses", "X", CodeKindMember, 0, 0},
			{"unknown kind", "X", CodeKind("vip"), 1, 0},
			{"negative duration", "X", CodeKindMember, 1, -1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewActivationCode("", tc.code, tc.kind, tc.maxUses, tc.duration, nil)
				if !errors.Is(err, domain.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			})
		}
	})
}

func TestActivationCodeRedeemable(t *testing.T) {
	now := time.Now()
	base := func() *ActivationCode {
		ac, _ := NewActivationCode("", "TEST-CODE", CodeKindMember, 2, 0, nil)
		return ac
	}

	t.Run("fresh code is redeemable", func(t *testing.T) {
		if !base().Redeemable(now) {
			t.Error("expected redeemable")
		}
	})

	t.Run("revoked", func(t *testing.T) {
		ac := base()
		ac.IsActive = false
		if ac.Redeemable(now) {
			t.Error("revoked code must not be redeemable")
		}
		if !errors.Is(ac.TerminalError(now), domain.ErrCodeInactive) {
			t.Error("expected ErrCodeInactive")
		}
	})

	t.Run("expired", func(t *testing.T) {
		ac := base()
		ac.ExpiresAt = ptr(now.Add(-time.Minute))
		if ac.Redeemable(now) {
			t.Error("expired code must not be redeemable")
		}
		if !errors.Is(ac.TerminalError(now), domain.ErrCodeExpired) {
			t.Error("expected ErrCodeExpired")
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		ac := base()
		ac.UsedCount = ac.MaxUses
		if ac.Redeemable(now) {
			t.Error("exhausted code must not be redeemable")
		}
		if !errors.Is(ac.TerminalError(now), domain.ErrCodeExhausted) {
			t.Error("expected ErrCodeExhausted")
		}
	})

	t.Run("revocation outranks expiry in classification", func(t *testing.T) {
		ac := base()
		ac.IsActive = false
		ac.ExpiresAt = ptr(now.Add(-time.Minute))
		if !errors.Is(ac.TerminalError(now), domain.ErrCodeInactive) {
			t.Error("expected ErrCodeInactive to win")
		}
	})

	t.Run("grant expiry", func(t *testing.T) {
		ac := base()
		if ac.GrantExpiry(now) != nil {
			t.Error("duration 0 must grant permanently")
		}
		ac.MembershipDurationDays = 30
		g := ac.GrantExpiry(now)
		if g == nil || !g.Equal(now.Add(30*24*time.Hour)) {
			t.Errorf("expected now+30d, got %v", g)
		}
	})
}
