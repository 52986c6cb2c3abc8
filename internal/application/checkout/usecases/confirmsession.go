package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/infrastructure/payment"
	"tailorcv/internal/infrastructure/unlockstore"
	"tailorcv/internal/shared/biztime"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

// TokenIssuer signs access tokens for confirmed purchases.
type TokenIssuer interface {
	Issue(kind entitlement.Kind, credits int, sid, email string, expiresAt time.Time) (string, error)
}

// ConfirmSessionUseCase reconciles a completed checkout session into an
// access token. It reads the purchase cache first and falls back to the
// processor, re-deriving the grant through the same catalog the webhook
// uses, so the two paths cannot disagree.
type ConfirmSessionUseCase struct {
	store   unlockstore.Store
	gateway payment.Gateway
	catalog *entitlement.Catalog
	issuer  TokenIssuer
	logger  logger.Interface
}

func NewConfirmSessionUseCase(
	store unlockstore.Store,
	gateway payment.Gateway,
	catalog *entitlement.Catalog,
	issuer TokenIssuer,
	logger logger.Interface,
) *ConfirmSessionUseCase {
	return &ConfirmSessionUseCase{
		store:   store,
		gateway: gateway,
		catalog: catalog,
		issuer:  issuer,
		logger:  logger,
	}
}

type ConfirmSessionCommand struct {
	SessionID string
	// Email enables the recover-purchase path when the session ID was
	// lost client-side.
	Email string
}

type ConfirmSessionResult struct {
	Token   string
	Kind    entitlement.Kind
	Exp     int64
	Credits int
}

func (uc *ConfirmSessionUseCase) Execute(ctx context.Context, cmd ConfirmSessionCommand) (*ConfirmSessionResult, error) {
	if cmd.SessionID == "" && cmd.Email == "" {
		return nil, apperrors.NewValidationError("Missing session_id.")
	}

	record, err := uc.lookup(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record, err = uc.fallback(ctx, cmd.SessionID)
		if err != nil {
			return nil, err
		}
	}

	token, err := uc.issuer.Issue(record.Kind, record.Credits, record.SessionID, record.Email, record.ExpiresAt)
	if err != nil {
		uc.logger.Errorw("failed to issue access token",
			"session_id", record.SessionID,
			"error", err,
		)
		return nil, apperrors.NewInternalError("Could not issue access token.")
	}

	uc.logger.Infow("purchase confirmed",
		"session_id", record.SessionID,
		"kind", record.Kind,
	)

	return &ConfirmSessionResult{
		Token:   token,
		Kind:    record.Kind,
		Exp:     record.ExpiresAt.Unix(),
		Credits: record.Credits,
	}, nil
}

// lookup queries the purchase cache, by session ID when present, otherwise
// by the latest purchase for the given email.
func (uc *ConfirmSessionUseCase) lookup(ctx context.Context, cmd ConfirmSessionCommand) (*entitlement.PurchaseRecord, error) {
	if cmd.SessionID != "" {
		record, err := uc.store.GetBySession(ctx, cmd.SessionID)
		if err != nil {
			uc.logger.Warnw("purchase cache lookup failed",
				"session_id", cmd.SessionID,
				"error", err,
			)
			return nil, nil
		}
		return record, nil
	}

	record, err := uc.store.GetLatestByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Warnw("purchase cache email lookup failed", "error", err)
		return nil, nil
	}
	if record == nil {
		return nil, apperrors.NewNotFoundError("No recent purchase found for this email.")
	}
	return record, nil
}

// fallback re-derives the purchase outcome straight from the processor.
// Webhook delivery is not guaranteed to precede the user's return to the
// success page, and the cache does not survive restarts.
func (uc *ConfirmSessionUseCase) fallback(ctx context.Context, sessionID string) (*entitlement.PurchaseRecord, error) {
	session, err := uc.gateway.GetSession(ctx, sessionID)
	if errors.Is(err, payment.ErrSessionNotFound) {
		return nil, apperrors.NewValidationError("Session not found.")
	}
	if err != nil {
		uc.logger.Errorw("failed to fetch session from processor",
			"session_id", sessionID,
			"error", err,
		)
		return nil, apperrors.NewUpstreamError("Could not verify payment. Please try again.")
	}

	if !session.Paid() {
		return nil, apperrors.NewValidationError("Payment not completed.")
	}

	now := biztime.NowUTC()
	grant, err := uc.catalog.DeriveGrant(session.PriceID, now)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unrecognized purchase price %q.", session.PriceID))
	}

	record := entitlement.NewPurchaseRecord(session.ID, session.CustomerEmail, session.AmountTotal, grant, now)

	// Populate the cache so a repeated confirmation keeps the same expiry.
	if err := uc.store.Save(ctx, record); err != nil {
		uc.logger.Warnw("failed to cache fallback purchase record",
			"session_id", session.ID,
			"error", err,
		)
	}
	return record, nil
}
