package usecases

import (
	"context"
	"errors"
	"fmt"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/infrastructure/payment"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

// CreateCheckoutUseCase maps a requested plan to a processor price and
// creates a hosted checkout session.
type CreateCheckoutUseCase struct {
	catalog *entitlement.Catalog
	gateway payment.Gateway
	baseURL string
	logger  logger.Interface
}

func NewCreateCheckoutUseCase(
	catalog *entitlement.Catalog,
	gateway payment.Gateway,
	baseURL string,
	logger logger.Interface,
) *CreateCheckoutUseCase {
	return &CreateCheckoutUseCase{
		catalog: catalog,
		gateway: gateway,
		baseURL: baseURL,
		logger:  logger,
	}
}

type CreateCheckoutCommand struct {
	Plan string
}

type CreateCheckoutResult struct {
	CheckoutURL string
}

func (uc *CreateCheckoutUseCase) Execute(ctx context.Context, cmd CreateCheckoutCommand) (*CreateCheckoutResult, error) {
	plan, err := uc.catalog.BySlug(entitlement.Slug(cmd.Plan))
	if errors.Is(err, entitlement.ErrUnknownPlan) {
		return nil, apperrors.NewValidationError("Unknown plan.")
	}
	if errors.Is(err, entitlement.ErrPlanNotConfigured) {
		uc.logger.Errorw("plan has no configured price id", "plan", cmd.Plan)
		return nil, apperrors.NewInternalError("Plan is not available.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	session, err := uc.gateway.CreateSession(ctx, payment.CreateSessionParams{
		PriceID:    plan.PriceID,
		SuccessURL: uc.baseURL + "/unlock/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  uc.baseURL + "/pricing",
	})
	if err != nil {
		uc.logger.Errorw("failed to create checkout session",
			"plan", cmd.Plan,
			"error", err,
		)
		return nil, apperrors.NewUpstreamError("Could not start checkout. Please try again.")
	}

	uc.logger.Infow("checkout session created",
		"plan", cmd.Plan,
		"session_id", session.ID,
	)

	return &CreateCheckoutResult{CheckoutURL: session.URL}, nil
}
