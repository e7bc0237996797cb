//go:build !integration

package application

import (
	"context"
	"sync"

	"membership-entitlement/internal/domain/model"
)

// captureNotifier records every delivered event for assertions.
type captureNotifier struct {
	mu       sync.Mutex
	grants   []capturedGrant
	expiring []string
	revoked  []string
	fail     error // returned from every call when set
}

type capturedGrant struct {
	userID string
	grant  model.MembershipGrant
}

func (n *captureNotifier) GrantActivated(_ context.Context, userID string, grant model.MembershipGrant) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.grants = append(n.grants, capturedGrant{userID: userID, grant: grant})
	return n.fail
}

func (n *captureNotifier) GrantExpiringSoon(_ context.Context, userID string, _ int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expiring = append(n.expiring, userID)
	return n.fail
}

func (n *captureNotifier) CodeRevoked(_ context.Context, code, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revoked = append(n.revoked, code)
	return n.fail
}
