package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorcv/internal/application/quota"
	"tailorcv/internal/application/tailor"
	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/infrastructure/tokens"
	"tailorcv/internal/interfaces/http/handlers/testutil"
	apperrors "tailorcv/internal/shared/errors"
)

type mockTailorSvc struct {
	result *tailor.Result
	err    error
	calls  int
}

func (m *mockTailorSvc) Execute(_ context.Context, cmd tailor.TailorCommand) (*tailor.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &tailor.Result{
		Resume:      json.RawMessage(`{"name":"Jane"}`),
		CoverLetter: "Dear team,",
	}, nil
}

func newTailorFixture(svc *mockTailorSvc) (*TailorHandler, *tokens.Codec, *quota.CookieCodec) {
	tokenCodec := tokens.NewCodec("test-secret")
	cookieCodec := quota.NewCookieCodec("quota-secret")
	guard := quota.NewGuard(cookieCodec, 3, 20, testutil.NewMockLogger())
	h := NewTailorHandler(svc, tokenCodec, guard, testutil.NewMockLogger())
	return h, tokenCodec, cookieCodec
}

func tailorForm() []byte {
	form := url.Values{}
	form.Set("job_description", "Backend engineer, Go.")
	form.Set("resume_text", "Jane Doe. 5 years Go.")
	return []byte(form.Encode())
}

func TestTailorHandler_FreeTier(t *testing.T) {
	svc := &mockTailorSvc{}
	h, _, cookieCodec := newTailorFixture(svc)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", tailorForm(), "application/x-www-form-urlencoded")
	h.Tailor(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "2", w.Header().Get("X-Tailor-Remaining"))

	// The daily counter cookie was set and verifies.
	var daily quota.DailyCount
	found := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == quota.DailyCookieName {
			found = true
			require.NoError(t, cookieCodec.Decode(ck.Value, &daily))
		}
	}
	require.True(t, found)
	assert.Equal(t, 1, daily.Count)
}

func TestTailorHandler_DailyLimitExhausted(t *testing.T) {
	svc := &mockTailorSvc{}
	h, _, cookieCodec := newTailorFixture(svc)

	today := time.Now().UTC().Format("2006-01-02")
	cookie, err := cookieCodec.Encode(quota.DailyCount{Date: today, Count: 3})
	require.NoError(t, err)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", tailorForm(), "application/x-www-form-urlencoded")
	c.Request.AddCookie(&http.Cookie{Name: quota.DailyCookieName, Value: cookie})
	h.Tailor(c)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 0, svc.calls)
	assert.Empty(t, w.Result().Cookies())
}

func TestTailorHandler_ValidationFailureDoesNotConsume(t *testing.T) {
	svc := &mockTailorSvc{err: apperrors.NewValidationError("Job description is required.")}
	h, _, _ := newTailorFixture(svc)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", []byte(""), "application/x-www-form-urlencoded")
	h.Tailor(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Empty(t, w.Header().Get("X-Tailor-Remaining"))
}

func TestTailorHandler_UpstreamFailureConsumes(t *testing.T) {
	svc := &mockTailorSvc{err: apperrors.NewUpstreamError("AI service is unavailable.")}
	h, _, cookieCodec := newTailorFixture(svc)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", tailorForm(), "application/x-www-form-urlencoded")
	h.Tailor(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var daily quota.DailyCount
	found := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == quota.DailyCookieName {
			found = true
			require.NoError(t, cookieCodec.Decode(ck.Value, &daily))
		}
	}
	require.True(t, found)
	assert.Equal(t, 1, daily.Count)
}

func TestTailorHandler_ProToken(t *testing.T) {
	svc := &mockTailorSvc{}
	h, tokenCodec, _ := newTailorFixture(svc)

	token, err := tokenCodec.Issue(entitlement.KindPro, 0, "cs_1", "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", tailorForm(), "application/x-www-form-urlencoded")
	c.Request.Header.Set("Authorization", "Bearer "+token)
	h.Tailor(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "19", w.Header().Get("X-Pro-Tailor-Remaining"))
	assert.Equal(t, "20", w.Header().Get("X-Pro-Tailor-Limit"))

	cookieNames := []string{}
	for _, ck := range w.Result().Cookies() {
		cookieNames = append(cookieNames, ck.Name)
	}
	assert.Contains(t, cookieNames, quota.ProCookieName)
	assert.NotContains(t, cookieNames, quota.DailyCookieName)
}

func TestTailorHandler_ExpiredProTokenFallsBackToFreeTier(t *testing.T) {
	svc := &mockTailorSvc{}
	h, tokenCodec, _ := newTailorFixture(svc)

	// A bundle token is valid but carries no pro window.
	token, err := tokenCodec.Issue(entitlement.KindBundle, 2, "cs_1", "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", tailorForm(), "application/x-www-form-urlencoded")
	c.Request.Header.Set("Authorization", "Bearer "+token)
	h.Tailor(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Tailor-Remaining"))
}

func TestTailorHandler_GarbageTokenFallsBackToFreeTier(t *testing.T) {
	svc := &mockTailorSvc{}
	h, _, _ := newTailorFixture(svc)

	c, w := testutil.NewRawTestContext(http.MethodPost, "/api/tailor", tailorForm(), "application/x-www-form-urlencoded")
	c.Request.Header.Set("Authorization", "Bearer garbage")
	h.Tailor(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Tailor-Remaining"))
}
