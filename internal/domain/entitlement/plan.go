// Package entitlement holds the purchasable plan catalog and the rules that
// turn a completed checkout into an access grant. Both the webhook handler
// and the confirmation fallback derive grants through the same catalog, so
// the two paths can never disagree.
package entitlement

import "time"

// Kind is the closed set of access grant kinds.
type Kind string

const (
	// KindBundle grants a fixed number of consumable tailoring credits.
	KindBundle Kind = "bundle"
	// KindPro grants a time-boxed window of unlimited tailoring.
	KindPro Kind = "pro"
	// KindSingle is the legacy one-shot unlock. Still honored on inbound
	// tokens, never issued for new purchases.
	KindSingle Kind = "single"
)

// Valid reports whether k is a known grant kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBundle, KindPro, KindSingle:
		return true
	}
	return false
}

// Consumable reports whether the kind carries decrementable credits rather
// than a time window.
func (k Kind) Consumable() bool {
	return k == KindBundle || k == KindSingle
}

// Slug identifies a purchasable plan in checkout requests.
type Slug string

const (
	PlanSingle  Slug = "single"
	PlanBundle2 Slug = "bundle2"
	PlanBundle5 Slug = "bundle5"
	PlanHour    Slug = "hour"
)

// Access windows per plan family. The window bounds how long a purchase
// outcome stays claimable, not how long generated documents live.
const (
	WindowPro    = time.Hour
	WindowBundle = 30 * 24 * time.Hour
	WindowSingle = 10 * time.Minute
)

// Plan describes one purchasable offering.
type Plan struct {
	Slug    Slug
	Kind    Kind
	Credits int
	Window  time.Duration
	PriceID string
}

// PriceIDs carries the processor price identifiers for each plan, as
// configured per environment.
type PriceIDs struct {
	Single  string
	Bundle2 string
	Bundle5 string
	Hour    string
}

// Catalog is the fixed allow-list of plans with their price mappings.
type Catalog struct {
	bySlug  map[Slug]Plan
	byPrice map[string]Slug
}

// NewCatalog builds the plan catalog from the configured price IDs.
// Plans with an empty price ID stay in the allow-list but fail at checkout
// with a configuration error rather than an unknown-plan error.
func NewCatalog(prices PriceIDs) *Catalog {
	plans := []Plan{
		{Slug: PlanSingle, Kind: KindSingle, Credits: 1, Window: WindowSingle, PriceID: prices.Single},
		{Slug: PlanBundle2, Kind: KindBundle, Credits: 2, Window: WindowBundle, PriceID: prices.Bundle2},
		{Slug: PlanBundle5, Kind: KindBundle, Credits: 5, Window: WindowBundle, PriceID: prices.Bundle5},
		{Slug: PlanHour, Kind: KindPro, Credits: 0, Window: WindowPro, PriceID: prices.Hour},
	}

	c := &Catalog{
		bySlug:  make(map[Slug]Plan, len(plans)),
		byPrice: make(map[string]Slug, len(plans)),
	}
	for _, p := range plans {
		c.bySlug[p.Slug] = p
		if p.PriceID != "" {
			c.byPrice[p.PriceID] = p.Slug
		}
	}
	return c
}

// BySlug resolves a requested plan slug. Unknown slugs are a caller error;
// known slugs without a configured price are a server configuration error.
func (c *Catalog) BySlug(slug Slug) (Plan, error) {
	plan, ok := c.bySlug[slug]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	if plan.PriceID == "" {
		return Plan{}, ErrPlanNotConfigured
	}
	return plan, nil
}

// ByPrice resolves a processor price ID back to its plan.
func (c *Catalog) ByPrice(priceID string) (Plan, error) {
	if priceID == "" {
		return Plan{}, ErrUnknownPrice
	}
	slug, ok := c.byPrice[priceID]
	if !ok {
		return Plan{}, ErrUnknownPrice
	}
	return c.bySlug[slug], nil
}
