package entitlement

import "time"

// Grant is the access outcome of one completed purchase: what kind of
// entitlement it confers, how many credits (for consumable kinds), and the
// absolute expiry of the grant.
type Grant struct {
	Kind      Kind
	Credits   int
	ExpiresAt time.Time
}

// DeriveGrant maps a processor price ID to the grant a completed checkout
// for that price confers. It is a pure function of the catalog, the price,
// and the clock; the webhook path and the confirmation fallback both funnel
// through it so duplicate derivation cannot drift apart.
func (c *Catalog) DeriveGrant(priceID string, now time.Time) (Grant, error) {
	plan, err := c.ByPrice(priceID)
	if err != nil {
		return Grant{}, err
	}
	return Grant{
		Kind:      plan.Kind,
		Credits:   plan.Credits,
		ExpiresAt: now.Add(plan.Window),
	}, nil
}
