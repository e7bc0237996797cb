// File: internal/usecase/activation_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"membership-entitlement/internal/domain"
	"membership-entitlement/internal/domain/model"
	"membership-entitlement/internal/domain/ports/repository"
	"membership-entitlement/internal/infra/logging"
	"membership-entitlement/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ActivationCodeUseCase = (*activationCodeUC)(nil)

// GenerateCodeInput carries the parameters of a new activation code.
type GenerateCodeInput struct {
	Kind model.CodeKind
	// MaxUses must be >= 1.
	MaxUses int
	// MembershipDurationDays is the granted membership length; 0 = permanent.
	MembershipDurationDays int
	// CodeExpiresInDays bounds the code's own redeemability; 0 = never expires.
	CodeExpiresInDays int
}

// ActivationCodeUseCase owns the activation code lifecycle and its state
// transition invariants.
type ActivationCodeUseCase interface {
	// Generate mints and persists a new code. Admin only.
	Generate(ctx context.Context, requestedBy *model.UserProfile, in GenerateCodeInput) (*model.ActivationCode, error)
	// Redeem consumes one use and grants the redeeming user the code's kind.
	Redeem(ctx context.Context, code, userID string) (*model.MembershipGrant, error)
	// Revoke permanently disables a code. Admin only, idempotent.
	Revoke(ctx context.Context, requestedBy *model.UserProfile, code string) error
	ListActive(ctx context.Context, filter string) ([]*model.ActivationCode, error)
	ListRedemptions(ctx context.Context, code string) ([]*model.Redemption, error)
}

type activationCodeUC struct {
	codes       repository.ActivationCodeRepository
	users       repository.UserRepository
	redemptions repository.RedemptionRepository
	tm          repository.TransactionManager
	retries     int
	log         *zerolog.Logger
}

func NewActivationCodeUseCase(
	codes repository.ActivationCodeRepository,
	users repository.UserRepository,
	redemptions repository.RedemptionRepository,
	tm repository.TransactionManager,
	generateRetries int,
	logger *zerolog.Logger,
) *activationCodeUC {
	if generateRetries <= 0 {
		generateRetries = 5
	}
	return &activationCodeUC{
		codes:       codes,
		users:       users,
		redemptions: redemptions,
		tm:          tm,
		retries:     generateRetries,
		log:         logger,
	}
}

func (u *activationCodeUC) Generate(ctx context.Context, requestedBy *model.UserProfile, in GenerateCodeInput) (*model.ActivationCode, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.Generate")()

	if model.ResolveTier(requestedBy) != model.TierAdmin {
		return nil, domain.ErrPermissionDenied
	}
	if in.MaxUses < 1 || !in.Kind.Valid() || in.MembershipDurationDays < 0 || in.CodeExpiresInDays < 0 {
		return nil, domain.ErrInvalidArgument
	}

	var expiresAt *time.Time
	if in.CodeExpiresInDays > 0 {
		t := time.Now().Add(time.Duration(in.CodeExpiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	// Retry on the (rare) code-string collision reported by the store.
	for attempt := 0; attempt < u.retries; attempt++ {
		raw, err := generateActivationCode()
		if err != nil {
			return nil, fmt.Errorf("generate code string: %w", err)
		}
		ac, err := model.NewActivationCode("", raw, in.Kind, in.MaxUses, in.MembershipDurationDays, expiresAt)
		if err != nil {
			return nil, err
		}
		if err := u.codes.Create(ctx, repository.NoTX, ac); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				u.log.Warn().Int("attempt", attempt+1).Msg("activation code collision, retrying")
				continue
			}
			return nil, err
		}
		metrics.IncCodeGenerated(string(in.Kind))
		return ac, nil
	}
	return nil, fmt.Errorf("generate activation code: %w", domain.ErrAlreadyExists)
}

// Redeem consumes one use of the code and grants its kind to the user, as a
// single transaction. The used_count increment is an atomic conditional
// update at the store: if the guard fails, the record is re-fetched and the
// failure is classified into its terminal reason instead of retrying.
func (u *activationCodeUC) Redeem(ctx context.Context, code, userID string) (*model.MembershipGrant, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.Redeem")()

	if code == "" || userID == "" {
		metrics.IncRedemption("error")
		return nil, domain.ErrInvalidArgument
	}

	now := time.Now()
	var grant *model.MembershipGrant
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ac, err := u.codes.ConsumeUse(ctx, tx, code, now)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return u.classifyGuardMiss(ctx, tx, code, now)
			}
			return err
		}

		user, err := u.users.FindByID(ctx, tx, userID)
		if err != nil {
			// Rolls back the consumed use: a use must never be spent
			// without its grant.
			return fmt.Errorf("redeeming user: %w", err)
		}

		g := user.ApplyGrant(ac.Kind, ac.GrantExpiry(now), now)
		if err := u.users.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("save grant: %w", err)
		}

		rec := model.NewRedemption(ac.Code, user.ID, ac.Kind, g.ExpiresAt, now)
		if err := u.redemptions.Save(ctx, tx, rec); err != nil {
			return fmt.Errorf("save redemption: %w", err)
		}

		grant = &g
		return nil
	})
	if err != nil {
		metrics.IncRedemption(redemptionResult(err))
		return nil, err
	}

	metrics.IncRedemption("granted")
	u.log.Info().
		Str("user_id", userID).
		Str("tier", string(grant.Tier)).
		Msg("activation code redeemed")
	return grant, nil
}

// classifyGuardMiss turns a failed conditional update into the caller-facing
// terminal error. The state can only have moved toward non-redeemable, so a
// still-redeemable re-read means the store misbehaved.
func (u *activationCodeUC) classifyGuardMiss(ctx context.Context, tx repository.Tx, code string, now time.Time) error {
	ac, err := u.codes.FindByCode(ctx, tx, code)
	if err != nil {
		return err
	}
	if terminal := ac.TerminalError(now); terminal != nil {
		return terminal
	}
	return domain.ErrStoreUnavailable
}

func (u *activationCodeUC) Revoke(ctx context.Context, requestedBy *model.UserProfile, code string) error {
	defer logging.TraceDuration(u.log, "ActivationUC.Revoke")()

	if model.ResolveTier(requestedBy) != model.TierAdmin {
		return domain.ErrPermissionDenied
	}
	if err := u.codes.Revoke(ctx, repository.NoTX, code); err != nil {
		return err
	}
	metrics.IncRevocation()
	u.log.Info().Str("revoked_by", requestedBy.ID).Msg("activation code revoked")
	return nil
}

func (u *activationCodeUC) ListActive(ctx context.Context, filter string) ([]*model.ActivationCode, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.ListActive")()
	return u.codes.ListActive(ctx, repository.NoTX, filter)
}

func (u *activationCodeUC) ListRedemptions(ctx context.Context, code string) ([]*model.Redemption, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.ListRedemptions")()
	return u.redemptions.ListByCode(ctx, repository.NoTX, code)
}

func redemptionResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCodeInactive):
		return "inactive"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrCodeExhausted):
		return "exhausted"
	default:
		return "error"
	}
}
