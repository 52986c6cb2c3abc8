// Package tokens issues and verifies the signed access credential handed to
// clients after a confirmed purchase. Tokens are stateless HS256 JWTs; expiry
// is the only lifecycle control, there is no revocation list.
package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tailorcv/internal/domain/entitlement"
)

// AccessClaims is the payload carried by an access token. The wire field
// for the grant kind is "type" for compatibility with previously issued
// tokens.
type AccessClaims struct {
	Kind    entitlement.Kind `json:"type"`
	Credits int              `json:"credits,omitempty"`
	SID     string           `json:"sid,omitempty"`
	Email   string           `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens with a server-held secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs a token for the given grant. expiresAt becomes the exp claim
// in unix seconds. Deterministic for identical inputs and secret.
func (c *Codec) Issue(kind entitlement.Kind, credits int, sid, email string, expiresAt time.Time) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("cannot issue token for kind %q", kind)
	}

	claims := &AccessClaims{
		Kind:    kind,
		Credits: credits,
		SID:     sid,
		Email:   email,
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. It fails closed on malformed
// input, non-HMAC algorithms, bad signatures, absent or past exp, and
// unknown kinds.
func (c *Codec) Verify(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Kind.Valid() {
		return nil, fmt.Errorf("unknown entitlement type %q", claims.Kind)
	}
	return claims, nil
}

// ExpiresAtUnix returns the exp claim in unix seconds, or 0 when absent.
func (a *AccessClaims) ExpiresAtUnix() int64 {
	if a.ExpiresAt == nil {
		return 0
	}
	return a.ExpiresAt.Unix()
}

// ActivePro reports whether the claims represent a pro window still open at
// now. Used by the quota guard to decide which counter applies.
func (a *AccessClaims) ActivePro(now time.Time) bool {
	return a.Kind == entitlement.KindPro && a.ExpiresAt != nil && a.ExpiresAt.After(now)
}
