package entitlement

import (
	"context"
	"errors"
	"time"
)

const schemaVersion = 1

// ErrNoAllowance means no pro window, no trial and no credits remain.
var ErrNoAllowance = errors.New("no tailoring allowance remaining")

// CoveredBy says which allowance paid for a tailoring run.
type CoveredBy string

const (
	CoveredByPro    CoveredBy = "pro"
	CoveredByTrial  CoveredBy = "trial"
	CoveredByCredit CoveredBy = "credit"
)

// Verifier is the part of Client that Reconcile needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (*VerifyResult, error)
}

// State is the client-side entitlement state machine. It is not safe for
// concurrent use; callers mutate it from a single goroutine.
type State struct {
	ledger    Ledger
	artifacts Artifacts
}

// NewState returns an empty state.
func NewState() *State {
	return &State{ledger: Ledger{SchemaVersion: schemaVersion}}
}

// Restore rebuilds a state from persisted data. A ledger from an unknown
// schema version is discarded rather than guessed at.
func Restore(ledger Ledger, artifacts Artifacts) *State {
	if ledger.SchemaVersion != schemaVersion {
		return NewState()
	}
	return &State{ledger: ledger, artifacts: artifacts}
}

// Ledger returns a copy of the durable entitlement ledger.
func (s *State) Ledger() Ledger { return s.ledger }

// Artifacts returns a copy of the session artifacts.
func (s *State) Artifacts() Artifacts { return s.artifacts }

// SetArtifacts replaces the session artifacts.
func (s *State) SetArtifacts(a Artifacts) { s.artifacts = a }

func (s *State) proActive(now time.Time) bool {
	return s.ledger.ProAccessUntil.After(now)
}

// IsPaid reports whether any paid entitlement is currently usable.
func (s *State) IsPaid(now time.Time) bool {
	return s.proActive(now) || s.ledger.SingleCredits > 0
}

// Status derives the current entitlement status.
func (s *State) Status(now time.Time) Status {
	switch {
	case s.proActive(now):
		return StatusProActive
	case s.ledger.SingleCredits > 0:
		return StatusCreditHolder
	case !s.ledger.ProAccessUntil.IsZero():
		return StatusProExpired
	case !s.ledger.FreeTrialUsed:
		if s.ledger.Token == "" && s.ledger.PurchaseKind == "" {
			return StatusUnentitled
		}
		return StatusTrialAvailable
	default:
		return StatusLocked
	}
}

// ApplyConfirm merges a confirmation result into the ledger. A pro result
// sets the access window; a bundle or single result adds credits. One kind
// never fabricates the other.
func (s *State) ApplyConfirm(sessionID string, res *ConfirmResult) {
	s.ledger.LastSessionID = sessionID
	s.ledger.PurchaseKind = res.Type
	s.ledger.Token = res.Token

	switch res.Type {
	case KindPro:
		s.ledger.ProAccessUntil = time.Unix(res.Exp, 0)
	case KindBundle, KindSingle:
		s.ledger.SingleCredits += res.Credits
	}
}

// Consume spends one tailoring allowance: a live pro window covers the run
// outright, otherwise the free trial goes first, then a single credit.
// Credits never go negative.
func (s *State) Consume(now time.Time) (CoveredBy, error) {
	if s.proActive(now) {
		return CoveredByPro, nil
	}
	if !s.ledger.FreeTrialUsed {
		s.ledger.FreeTrialUsed = true
		return CoveredByTrial, nil
	}
	if s.ledger.SingleCredits > 0 {
		s.ledger.SingleCredits--
		return CoveredByCredit, nil
	}
	return "", ErrNoAllowance
}

// Reconcile checks the stored token against the server. Only a valid pro
// token refreshes the access window; credits are client-accounted and are
// never rebuilt from a token. Any failure clears pro-derived fields and
// leaves credits and the trial flag untouched.
func (s *State) Reconcile(ctx context.Context, v Verifier, now time.Time) error {
	if s.ledger.Token == "" {
		s.ledger.ProAccessUntil = time.Time{}
		return nil
	}

	res, err := v.Verify(ctx, s.ledger.Token)
	if err != nil {
		s.ledger.ProAccessUntil = time.Time{}
		return err
	}
	if !res.Valid {
		s.ledger.Token = ""
		s.ledger.ProAccessUntil = time.Time{}
		return nil
	}

	if res.Type == KindPro {
		exp := time.Unix(res.Exp, 0)
		if exp.After(now) {
			s.ledger.ProAccessUntil = exp
		} else {
			s.ledger.ProAccessUntil = time.Time{}
		}
	}
	return nil
}

// Reset starts the session over: artifacts, token, pro window and purchase
// kind are cleared. Credits and the trial flag are durable entitlements and
// survive, as does LastSessionID so a purchase can still be recovered.
func (s *State) Reset() {
	s.artifacts = Artifacts{}
	s.ledger.Token = ""
	s.ledger.ProAccessUntil = time.Time{}
	s.ledger.PurchaseKind = ""
}

// Countdown returns the remaining pro time, zero when no window is active.
// Display only; access decisions always recheck the stored expiry.
func (s *State) Countdown(now time.Time) time.Duration {
	if !s.proActive(now) {
		return 0
	}
	return s.ledger.ProAccessUntil.Sub(now)
}
