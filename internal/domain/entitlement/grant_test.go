package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func testCatalog() *Catalog {
	return NewCatalog(PriceIDs{
		Single:  "price_single",
		Bundle2: "price_bundle2",
		Bundle5: "price_bundle5",
		Hour:    "price_hour",
	})
}

func grantTestNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// =====================================================================
// TestCatalog_BySlug
// =====================================================================

func TestCatalog_BySlug_KnownPlans(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		slug    Slug
		kind    Kind
		credits int
		window  time.Duration
	}{
		{PlanSingle, KindSingle, 1, WindowSingle},
		{PlanBundle2, KindBundle, 2, WindowBundle},
		{PlanBundle5, KindBundle, 5, WindowBundle},
		{PlanHour, KindPro, 0, WindowPro},
	}

	for _, tt := range tests {
		t.Run(string(tt.slug), func(t *testing.T) {
			plan, err := catalog.BySlug(tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, plan.Kind)
			assert.Equal(t, tt.credits, plan.Credits)
			assert.Equal(t, tt.window, plan.Window)
			assert.NotEmpty(t, plan.PriceID)
		})
	}
}

func TestCatalog_BySlug_UnknownPlan(t *testing.T) {
	catalog := testCatalog()

	_, err := catalog.BySlug("enterprise")

	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestCatalog_BySlug_UnconfiguredPrice(t *testing.T) {
	catalog := NewCatalog(PriceIDs{Hour: "price_hour"})

	_, err := catalog.BySlug(PlanBundle2)
	assert.ErrorIs(t, err, ErrPlanNotConfigured)

	// Configured plan is unaffected
	plan, err := catalog.BySlug(PlanHour)
	require.NoError(t, err)
	assert.Equal(t, KindPro, plan.Kind)
}

// =====================================================================
// TestCatalog_DeriveGrant
// =====================================================================

func TestCatalog_DeriveGrant_Pro(t *testing.T) {
	catalog := testCatalog()
	now := grantTestNow()

	grant, err := catalog.DeriveGrant("price_hour", now)

	require.NoError(t, err)
	assert.Equal(t, KindPro, grant.Kind)
	assert.Equal(t, 0, grant.Credits)
	assert.Equal(t, now.Add(time.Hour), grant.ExpiresAt)
}

func TestCatalog_DeriveGrant_Bundle(t *testing.T) {
	catalog := testCatalog()
	now := grantTestNow()

	grant, err := catalog.DeriveGrant("price_bundle2", now)

	require.NoError(t, err)
	assert.Equal(t, KindBundle, grant.Kind)
	assert.Equal(t, 2, grant.Credits)
	assert.Equal(t, now.Add(30*24*time.Hour), grant.ExpiresAt)
}

func TestCatalog_DeriveGrant_LegacySingle(t *testing.T) {
	catalog := testCatalog()
	now := grantTestNow()

	grant, err := catalog.DeriveGrant("price_single", now)

	require.NoError(t, err)
	assert.Equal(t, KindSingle, grant.Kind)
	assert.Equal(t, 1, grant.Credits)
	assert.Equal(t, now.Add(10*time.Minute), grant.ExpiresAt)
}

func TestCatalog_DeriveGrant_UnknownPrice(t *testing.T) {
	catalog := testCatalog()

	_, err := catalog.DeriveGrant("price_other", grantTestNow())
	assert.ErrorIs(t, err, ErrUnknownPrice)

	_, err = catalog.DeriveGrant("", grantTestNow())
	assert.ErrorIs(t, err, ErrUnknownPrice)
}

// DeriveGrant is the single derivation used by both the webhook and the
// confirmation fallback; equal inputs must always produce equal grants.
func TestCatalog_DeriveGrant_Deterministic(t *testing.T) {
	catalog := testCatalog()
	now := grantTestNow()

	a, err := catalog.DeriveGrant("price_bundle5", now)
	require.NoError(t, err)
	b, err := catalog.DeriveGrant("price_bundle5", now)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

// =====================================================================
// TestPurchaseRecord
// =====================================================================

func TestNewPurchaseRecord_LowercasesEmail(t *testing.T) {
	now := grantTestNow()
	grant := Grant{Kind: KindBundle, Credits: 2, ExpiresAt: now.Add(time.Hour)}

	rec := NewPurchaseRecord("cs_test_1", " Jane.Doe@Example.COM ", 399, grant, now)

	assert.Equal(t, "jane.doe@example.com", rec.Email)
	assert.Equal(t, grant, rec.Grant())
	assert.False(t, rec.Expired(now))
	assert.True(t, rec.Expired(now.Add(2*time.Hour)))
}

func TestKind_Validity(t *testing.T) {
	assert.True(t, KindBundle.Valid())
	assert.True(t, KindPro.Valid())
	assert.True(t, KindSingle.Valid())
	assert.False(t, Kind("gold").Valid())

	assert.True(t, KindBundle.Consumable())
	assert.True(t, KindSingle.Consumable())
	assert.False(t, KindPro.Consumable())
}
