package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tailorcv/internal/shared/biztime"
)

var (
	// ErrSessionNotFound means the processor has no session with that ID.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrInvalidSignature means the webhook signature header failed
	// verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// EventCheckoutCompleted is the only webhook event type acted upon; all
// other types are acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// signatureTolerance bounds how old a signed timestamp may be before the
// event is treated as a replay.
const signatureTolerance = 5 * time.Minute

// WebhookEvent is a verified processor event. Session carries only the
// fields present in the event payload; the price must be re-fetched via
// Gateway.GetSession.
type WebhookEvent struct {
	Type      string
	SessionID string
}

// WebhookVerifier checks processor signatures over raw webhook bodies.
// The header format is "t=<unix>,v1=<hex hmac>", where the HMAC-SHA256 is
// computed over "<unix>.<raw body>" with the webhook secret.
type WebhookVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret), now: biztime.NowUTC}
}

// ParseEvent verifies the signature header and decodes the event. It fails
// closed: any malformed header, stale timestamp, or signature mismatch
// yields ErrInvalidSignature.
func (v *WebhookVerifier) ParseEvent(rawBody []byte, sigHeader string) (*WebhookEvent, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	verified := false
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrInvalidSignature
	}

	var envelope struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}

	return &WebhookEvent{
		Type:      envelope.Type,
		SessionID: envelope.Data.Object.ID,
	}, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, errors.New("empty signature header")
	}

	var timestamp int64 = -1
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("bad timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, errors.New("missing timestamp or signature")
	}
	return timestamp, signatures, nil
}
