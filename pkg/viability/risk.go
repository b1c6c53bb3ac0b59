package viability

import (
	"time"

	"github.com/snow-ghost/ideation/core"
)

type RiskKind string

const (
	RiskTooVague         RiskKind = "too_vague"
	RiskWrongTiming      RiskKind = "wrong_timing"
	RiskImpossible       RiskKind = "impossible"
	RiskResourceMismatch RiskKind = "resource_mismatch"
	RiskSaturatedMarket  RiskKind = "saturated_market"
	RiskUnrealistic      RiskKind = "unrealistic"

	// Raised by reviewers outside this package; the engine never emits them.
	RiskRegulatory RiskKind = "regulatory"
	RiskEthical    RiskKind = "ethical"
)

// Risk is a negative finding surfaced while scoring viability.
type Risk struct {
	ID             string        `json:"id"`
	CandidateID    string        `json:"candidate_id"`
	Kind           RiskKind      `json:"kind"`
	Description    string        `json:"description"`
	EvidenceURL    *string       `json:"evidence_url,omitempty"`
	EvidenceText   *string       `json:"evidence_text,omitempty"`
	Severity       core.Severity `json:"severity"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at,omitempty"`
	UserResponse   *string       `json:"user_response,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Acknowledge returns a copy of r marked as acknowledged by the user.
func (r Risk) Acknowledge(response string, at time.Time) Risk {
	r.Acknowledged = true
	r.AcknowledgedAt = &at
	r.UserResponse = optional(response)
	return r
}

// RiskParams are the caller-supplied fields of a new risk. Empty evidence
// strings are stored as absent.
type RiskParams struct {
	CandidateID  string
	Kind         RiskKind
	Description  string
	EvidenceURL  string
	EvidenceText string
	Severity     core.Severity
}

// RiskFactory builds risk records with fresh identifiers.
type RiskFactory struct {
	IDs   core.IDProvider
	Clock core.Clock
}

// NewRiskFactory returns a factory backed by random UUIDs and the wall clock.
func NewRiskFactory() *RiskFactory {
	return &RiskFactory{IDs: core.UUIDProvider{}, Clock: core.SystemClock{}}
}

func (f *RiskFactory) NewRisk(p RiskParams) Risk {
	return Risk{
		ID:           f.IDs.NewID(),
		CandidateID:  p.CandidateID,
		Kind:         p.Kind,
		Description:  p.Description,
		EvidenceURL:  optional(p.EvidenceURL),
		EvidenceText: optional(p.EvidenceText),
		Severity:     p.Severity,
		CreatedAt:    f.Clock.Now(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
