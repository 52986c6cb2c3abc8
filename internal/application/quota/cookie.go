// Package quota enforces per-request usage limits for the tailoring
// endpoint. Counters ride in HMAC-signed cookies so the server stays
// stateless; a forged or corrupted cookie only ever resets the caller to a
// fresh counter, it can never raise their allowance.
package quota

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// DailyCookieName carries the free-tier daily counter.
	DailyCookieName = "tcv_daily"
	// ProCookieName carries the per-pro-session usage counter.
	ProCookieName = "tcv_pro"
)

var errBadCookie = errors.New("malformed quota cookie")

// CookieCodec signs and verifies quota cookie payloads. The format is
// base64url(JSON) + "." + base64url(HMAC-SHA256 signature).
type CookieCodec struct {
	secret []byte
}

func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret)}
}

func (c *CookieCodec) Encode(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal quota cookie: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + c.sign(encoded), nil
}

// Decode verifies the signature and unmarshals the payload into v. Any
// failure collapses to errBadCookie; callers treat that as cookie absent.
func (c *CookieCodec) Decode(value string, v any) error {
	encoded, sig, ok := strings.Cut(value, ".")
	if !ok {
		return errBadCookie
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(encoded))) {
		return errBadCookie
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return errBadCookie
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return errBadCookie
	}
	return nil
}

func (c *CookieCodec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
