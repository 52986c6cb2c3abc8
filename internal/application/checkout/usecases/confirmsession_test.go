package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/infrastructure/payment"
	"tailorcv/internal/infrastructure/tokens"
	"tailorcv/internal/infrastructure/unlockstore"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

func newConfirmFixture() (*ConfirmSessionUseCase, *unlockstore.MemoryStore, *payment.MockGateway, *tokens.Codec) {
	store := unlockstore.NewMemoryStore()
	gateway := payment.NewMockGateway()
	codec := tokens.NewCodec("test-secret")
	uc := NewConfirmSessionUseCase(store, gateway, testCheckoutCatalog(), codec, logger.NewLogger())
	return uc, store, gateway, codec
}

func TestConfirmSession_CacheHit(t *testing.T) {
	ctx := context.Background()
	uc, store, _, codec := newConfirmFixture()

	exp := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)
	grant := entitlement.Grant{Kind: entitlement.KindBundle, Credits: 5, ExpiresAt: exp}
	require.NoError(t, store.Save(ctx, entitlement.NewPurchaseRecord("cs_1", "a@example.com", 999, grant, time.Now())))

	result, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_1"})

	require.NoError(t, err)
	assert.Equal(t, entitlement.KindBundle, result.Kind)
	assert.Equal(t, 5, result.Credits)
	assert.Equal(t, exp.Unix(), result.Exp)

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "cs_1", claims.SID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestConfirmSession_FallbackToProcessor(t *testing.T) {
	ctx := context.Background()
	uc, store, gateway, _ := newConfirmFixture()

	gateway.Sessions["cs_2"] = &payment.CheckoutSession{
		ID:            "cs_2",
		PaymentStatus: "paid",
		AmountTotal:   500,
		CustomerEmail: "b@example.com",
		PriceID:       "price_hour",
	}

	result, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_2"})

	require.NoError(t, err)
	assert.Equal(t, entitlement.KindPro, result.Kind)
	assert.Equal(t, 0, result.Credits)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), result.Exp, 5)

	// The fallback populated the cache.
	cached, err := store.GetBySession(ctx, "cs_2")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, entitlement.KindPro, cached.Kind)
}

func TestConfirmSession_Idempotent(t *testing.T) {
	ctx := context.Background()
	uc, _, gateway, _ := newConfirmFixture()

	gateway.Sessions["cs_3"] = &payment.CheckoutSession{
		ID:            "cs_3",
		PaymentStatus: "paid",
		CustomerEmail: "c@example.com",
		PriceID:       "price_bundle2",
	}

	first, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_3"})
	require.NoError(t, err)
	second, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_3"})
	require.NoError(t, err)

	// The first call cached the record, so the entitlement outcome is
	// stable across repeats.
	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Credits, second.Credits)
	assert.Equal(t, first.Exp, second.Exp)
	assert.Equal(t, first.Token, second.Token)
}

func TestConfirmSession_UnpaidSession(t *testing.T) {
	ctx := context.Background()
	uc, _, gateway, _ := newConfirmFixture()

	gateway.Sessions["cs_4"] = &payment.CheckoutSession{
		ID:            "cs_4",
		PaymentStatus: "unpaid",
		PriceID:       "price_bundle2",
	}

	_, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_4"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmSession_UnknownSession(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newConfirmFixture()

	_, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_missing"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmSession_UnknownPrice(t *testing.T) {
	ctx := context.Background()
	uc, _, gateway, _ := newConfirmFixture()

	gateway.Sessions["cs_5"] = &payment.CheckoutSession{
		ID:            "cs_5",
		PaymentStatus: "paid",
		PriceID:       "price_other",
	}

	_, err := uc.Execute(ctx, ConfirmSessionCommand{SessionID: "cs_5"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmSession_MissingSessionID(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newConfirmFixture()

	_, err := uc.Execute(ctx, ConfirmSessionCommand{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmSession_RecoverByEmail(t *testing.T) {
	ctx := context.Background()
	uc, store, _, _ := newConfirmFixture()

	exp := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)
	grant := entitlement.Grant{Kind: entitlement.KindBundle, Credits: 2, ExpiresAt: exp}
	require.NoError(t, store.Save(ctx, entitlement.NewPurchaseRecord("cs_6", "lost@example.com", 399, grant, time.Now())))

	result, err := uc.Execute(ctx, ConfirmSessionCommand{Email: "Lost@Example.com"})

	require.NoError(t, err)
	assert.Equal(t, entitlement.KindBundle, result.Kind)
	assert.Equal(t, 2, result.Credits)
}

func TestConfirmSession_RecoverByEmailMiss(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newConfirmFixture()

	_, err := uc.Execute(ctx, ConfirmSessionCommand{Email: "nobody@example.com"})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
