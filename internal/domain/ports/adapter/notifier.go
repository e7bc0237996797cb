package adapter

import (
	"context"

	"membership-entitlement/internal/domain/model"
)

// Notifier is the sink for entitlement events. Deliveries are best-effort:
// a failed notification never rolls back the mutation it describes.
type Notifier interface {
	// GrantActivated fires after a successful redemption.
	GrantActivated(ctx context.Context, userID string, grant model.MembershipGrant) error
	// GrantExpiringSoon fires when a grant enters its final week.
	GrantExpiringSoon(ctx context.Context, userID string, daysLeft int) error
	// CodeRevoked fires when an admin disables a code.
	CodeRevoked(ctx context.Context, code string, revokedBy string) error
}
