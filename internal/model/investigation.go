package model

// Investigation is the backend's fact-check of a single claim
type Investigation struct {
	ID                      string              `json:"id"`
	ClaimID                 string              `json:"claim_id"`
	ClaimText               *string             `json:"claim_text,omitempty"` // Attached by the list endpoint
	Verdict                 Verdict             `json:"verdict"`
	ConfidenceScore         float64             `json:"confidence_score"` // 0-1
	Summary                 string              `json:"summary"`
	Reasoning               string              `json:"reasoning,omitempty"`
	PropagandaSignals       PropagandaSignals   `json:"propaganda_signals"`
	SourceReliabilityAvg    float64             `json:"source_reliability_avg"`
	EvidenceCount           int                 `json:"evidence_count"`
	SupportingEvidenceCount int                 `json:"supporting_evidence_count"`
	RefutingEvidenceCount   int                 `json:"refuting_evidence_count"`
	Status                  InvestigationStatus `json:"status"`
	CreatedAt               Timestamp           `json:"created_at"`
	UpdatedAt               Timestamp           `json:"updated_at"`

	Claim    *Claim     `json:"claim,omitempty"`    // Detail endpoint only
	Evidence []Evidence `json:"evidence,omitempty"` // Detail endpoint only
}

// InvestigationStatus is the processing state of an investigation
type InvestigationStatus string

const (
	InvestigationInProgress InvestigationStatus = "in_progress"
	InvestigationCompleted  InvestigationStatus = "completed"
	InvestigationError      InvestigationStatus = "error"
)

// PropagandaSignals aggregates the persuasion techniques detected for a claim
type PropagandaSignals struct {
	TechniquesDetected     []PropagandaTechnique `json:"techniques_detected"`
	OverallPropagandaScore float64               `json:"overall_propaganda_score"` // 0-1
}

// PropagandaTechnique is one detected technique with its supporting text
type PropagandaTechnique struct {
	Technique  string  `json:"technique"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// DisplayClaimText returns the best available claim text, or "" when none is known
func (i *Investigation) DisplayClaimText() string {
	if i.Claim != nil && i.Claim.ClaimText != "" {
		return i.Claim.ClaimText
	}
	if i.ClaimText != nil {
		return *i.ClaimText
	}
	return ""
}
