package sched

import (
	"context"
	"time"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/adapter"
	"membership-entitlement/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// ExpirySweeper periodically flags membership grants entering their final
// week and reports them to the notifier. Codes themselves need no sweeping:
// redeemability is checked at redemption time and expired codes are simply
// no longer redeemable.
type ExpirySweeper struct {
	interval time.Duration
	users    repository.UserRepository
	notifier adapter.Notifier
	log      *zerolog.Logger

	// notified remembers who was already told, keyed by user id and expiry,
	// so restarting the countdown (a new grant) re-arms the notification.
	notified map[string]time.Time
}

func NewExpirySweeper(interval time.Duration, users repository.UserRepository, notifier adapter.Notifier, logger *zerolog.Logger) *ExpirySweeper {
	l := logger.With().Str("component", "ExpirySweeper").Logger()
	return &ExpirySweeper{
		interval: interval,
		users:    users,
		notifier: notifier,
		log:      &l,
		notified: make(map[string]time.Time),
	}
}

func (w *ExpirySweeper) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting expiry sweeper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry sweeper")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpirySweeper) sweep(ctx context.Context) {
	now := time.Now()
	expiring, err := w.users.ListExpiringMembers(ctx, repository.NoTX, 7)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	for _, u := range expiring {
		if last, ok := w.notified[u.ID]; ok && u.MemberExpiresAt != nil && last.Equal(*u.MemberExpiresAt) {
			continue
		}
		days, ok := model.ExpiryInDays(now, u.MemberExpiresAt)
		if !ok {
			continue
		}
		if err := w.notifier.GrantExpiringSoon(ctx, u.ID, days); err != nil {
			w.log.Warn().Err(err).Str("user_id", u.ID).Msg("expiry notification failed")
			continue
		}
		if u.MemberExpiresAt != nil {
			w.notified[u.ID] = *u.MemberExpiresAt
		}
	}
	if len(expiring) > 0 {
		w.log.Info().Int("count", len(expiring)).Msg("memberships expiring within 7 days")
	}
}
