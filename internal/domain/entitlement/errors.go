package entitlement

import "errors"

var (
	// ErrUnknownPlan means the requested plan slug is not in the allow-list.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrPlanNotConfigured means the plan exists but has no price ID for
	// this environment.
	ErrPlanNotConfigured = errors.New("plan price not configured")

	// ErrUnknownPrice means a processor price ID maps to no known plan.
	ErrUnknownPrice = errors.New("unknown price id")

	// ErrSessionUnpaid means the checkout session exists but was never paid.
	ErrSessionUnpaid = errors.New("payment not completed")
)
