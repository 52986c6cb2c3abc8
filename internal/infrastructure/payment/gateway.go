// Package payment talks to the checkout processor. The rest of the app only
// sees the narrow Gateway interface; the Stripe-specific wire handling stays
// in this package.
package payment

import "context"

// CreateSessionParams describes one hosted checkout session to create.
type CreateSessionParams struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the processor's view of a session, reduced to the
// fields confirmation and the webhook need.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64
	CustomerEmail string
	PriceID       string
}

// Paid reports whether the session completed payment.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// Gateway is the processor surface the checkout usecases depend on.
// GetSession must return the session with its line-item price populated;
// the session object delivered inside webhook events does not carry it.
type Gateway interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
