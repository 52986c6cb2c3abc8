package usecases

import (
	"context"
	"errors"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/infrastructure/payment"
	"tailorcv/internal/infrastructure/unlockstore"
	"tailorcv/internal/shared/biztime"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

// WebhookVerifier is the signature check the usecase depends on.
type WebhookVerifier interface {
	ParseEvent(rawBody []byte, sigHeader string) (*payment.WebhookEvent, error)
}

// HandleWebhookUseCase processes processor webhook deliveries. Only an
// invalid signature is an error to the caller; everything after a verified
// signature is acknowledged, with anomalies logged rather than surfaced,
// matching the processor's retry contract.
type HandleWebhookUseCase struct {
	verifier WebhookVerifier
	gateway  payment.Gateway
	store    unlockstore.Store
	catalog  *entitlement.Catalog
	logger   logger.Interface
}

func NewHandleWebhookUseCase(
	verifier WebhookVerifier,
	gateway payment.Gateway,
	store unlockstore.Store,
	catalog *entitlement.Catalog,
	logger logger.Interface,
) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		verifier: verifier,
		gateway:  gateway,
		store:    store,
		catalog:  catalog,
		logger:   logger,
	}
}

func (uc *HandleWebhookUseCase) Execute(ctx context.Context, rawBody []byte, sigHeader string) error {
	event, err := uc.verifier.ParseEvent(rawBody, sigHeader)
	if errors.Is(err, payment.ErrInvalidSignature) {
		uc.logger.Warnw("webhook signature verification failed")
		return apperrors.NewBadRequestError("Invalid signature.")
	}
	if err != nil {
		uc.logger.Warnw("webhook event could not be decoded", "error", err)
		return apperrors.NewBadRequestError("Invalid payload.")
	}

	if event.Type != payment.EventCheckoutCompleted {
		uc.logger.Debugw("ignoring webhook event", "type", event.Type)
		return nil
	}

	// The event payload does not carry line items, so the session is
	// re-fetched for its price. A fetch failure is logged and swallowed;
	// the confirmation fallback will still derive the grant directly.
	session, err := uc.gateway.GetSession(ctx, event.SessionID)
	if err != nil {
		uc.logger.Errorw("failed to fetch session for webhook",
			"session_id", event.SessionID,
			"error", err,
		)
		return nil
	}

	now := biztime.NowUTC()
	grant, err := uc.catalog.DeriveGrant(session.PriceID, now)
	if err != nil {
		uc.logger.Warnw("webhook session has unrecognized price",
			"session_id", session.ID,
			"price_id", session.PriceID,
		)
		return nil
	}

	record := entitlement.NewPurchaseRecord(session.ID, session.CustomerEmail, session.AmountTotal, grant, now)
	if err := uc.store.Save(ctx, record); err != nil {
		uc.logger.Errorw("failed to cache purchase record",
			"session_id", session.ID,
			"error", err,
		)
		return nil
	}

	uc.logger.Infow("purchase recorded from webhook",
		"session_id", session.ID,
		"kind", record.Kind,
		"credits", record.Credits,
	)
	return nil
}
