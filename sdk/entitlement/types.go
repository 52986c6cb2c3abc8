package entitlement

import (
	"encoding/json"
	"time"
)

// Purchase kinds as they appear in the token "type" claim.
const (
	KindSingle = "single"
	KindBundle = "bundle"
	KindPro    = "pro"
)

// ConfirmResult is the server's answer to a checkout confirmation.
type ConfirmResult struct {
	Token   string `json:"token"`
	Type    string `json:"type"`
	Exp     int64  `json:"exp"`
	Credits int    `json:"credits,omitempty"`
}

// VerifyResult is the server's answer to a token verification.
type VerifyResult struct {
	Valid bool   `json:"valid"`
	Type  string `json:"type,omitempty"`
	Exp   int64  `json:"exp,omitempty"`
}

// Status is the derived entitlement state.
type Status string

const (
	StatusUnentitled     Status = "unentitled"
	StatusTrialAvailable Status = "trial_available"
	StatusCreditHolder   Status = "credit_holder"
	StatusProActive      Status = "pro_active"
	StatusProExpired     Status = "pro_expired"
	StatusLocked         Status = "locked"
)

// Ledger holds durable entitlements. It survives a "start over" reset.
type Ledger struct {
	SchemaVersion  int       `json:"schemaVersion"`
	Token          string    `json:"token,omitempty"`
	ProAccessUntil time.Time `json:"proAccessUntil,omitzero"`
	PurchaseKind   string    `json:"purchaseKind,omitempty"`
	SingleCredits  int       `json:"singleCredits"`
	FreeTrialUsed  bool      `json:"freeTrialUsed"`
	LastSessionID  string    `json:"lastSessionId,omitempty"`
}

// Artifacts holds generated documents for the current session. Unlike the
// ledger these are cleared wholesale on reset.
type Artifacts struct {
	TailoredResume json.RawMessage `json:"tailoredResume,omitempty"`
	CoverLetter    string          `json:"coverLetter,omitempty"`
	FollowUpEmail  string          `json:"followUpEmail,omitempty"`
	TemplateID     string          `json:"templateId,omitempty"`
}
