package entitlement

import (
	"strings"
	"time"
)

// PurchaseRecord is one completed checkout outcome, cached server-side so
// the confirmation endpoint can avoid a processor round-trip. Records are
// never updated in place; duplicate webhook deliveries simply overwrite
// with an identical value.
type PurchaseRecord struct {
	SessionID   string
	Kind        Kind
	Credits     int
	ExpiresAt   time.Time
	Email       string
	AmountTotal int64
	CreatedAt   time.Time
}

// NewPurchaseRecord builds a record for a completed session from its
// derived grant.
func NewPurchaseRecord(sessionID, email string, amountTotal int64, grant Grant, now time.Time) *PurchaseRecord {
	return &PurchaseRecord{
		SessionID:   sessionID,
		Kind:        grant.Kind,
		Credits:     grant.Credits,
		ExpiresAt:   grant.ExpiresAt,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		AmountTotal: amountTotal,
		CreatedAt:   now,
	}
}

// Expired reports whether the record is logically absent at now.
func (r *PurchaseRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Grant reconstructs the grant this record represents.
func (r *PurchaseRecord) Grant() Grant {
	return Grant{
		Kind:      r.Kind,
		Credits:   r.Credits,
		ExpiresAt: r.ExpiresAt,
	}
}
