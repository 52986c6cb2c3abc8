// Package unlockstore caches completed purchase outcomes keyed by checkout
// session. The webhook handler writes, the confirmation endpoint reads. The
// cache is best-effort: its absence must never block a paid user, since
// confirmation falls back to the payment processor.
package unlockstore

import (
	"context"

	"tailorcv/internal/domain/entitlement"
)

// Store is the purchase outcome cache.
//
// Save upserts by session ID and records the record's lowercased email as
// the latest purchase for that address. GetBySession and GetLatestByEmail
// return nil (not an error) on miss, after lazily purging expired records.
type Store interface {
	Save(ctx context.Context, record *entitlement.PurchaseRecord) error
	GetBySession(ctx context.Context, sessionID string) (*entitlement.PurchaseRecord, error)
	GetLatestByEmail(ctx context.Context, email string) (*entitlement.PurchaseRecord, error)
}
