// Package notify holds the built-in Notifier implementations. Real
// deployments plug an external delivery channel behind the same port.
package notify

import (
	"context"

	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var (
	_ adapter.Notifier = (*Noop)(nil)
	_ adapter.Notifier = (*Log)(nil)
)

// Noop discards all events.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) GrantActivated(context.Context, string, model.MembershipGrant) error { return nil }
func (*Noop) GrantExpiringSoon(context.Context, string, int) error                { return nil }
func (*Noop) CodeRevoked(context.Context, string, string) error                   { return nil }

// Log writes events to the structured log. Useful as a default sink and in
// dev mode.
type Log struct {
	log *zerolog.Logger
}

func NewLog(logger *zerolog.Logger) *Log {
	l := logger.With().Str("component", "notifier").Logger()
	return &Log{log: &l}
}

func (n *Log) GrantActivated(_ context.Context, userID string, grant model.MembershipGrant) error {
	ev := n.log.Info().Str("user_id", userID).Str("tier", string(grant.Tier))
	if grant.ExpiresAt != nil {
		ev = ev.Time("expires_at", *grant.ExpiresAt)
	}
	ev.Msg("membership granted")
	return nil
}

func (n *Log) GrantExpiringSoon(_ context.Context, userID string, daysLeft int) error {
	n.log.Info().Str("user_id", userID).Int("days_left", daysLeft).Msg("membership expiring soon")
	return nil
}

func (n *Log) CodeRevoked(_ context.Context, code, revokedBy string) error {
	n.log.Info().Str("code", code).Str("revoked_by", revokedBy).Msg("activation code revoked")
	return nil
}
