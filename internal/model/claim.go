package model

// Claim represents a factual assertion extracted from an article by the backend
type Claim struct {
	ID                   string    `json:"id"`
	ArticleID            string    `json:"article_id"`
	ClaimText            string    `json:"claim_text"`
	ClaimType            string    `json:"claim_type,omitempty"`
	Context              string    `json:"context,omitempty"`
	IsCheckable          bool      `json:"is_checkable"`
	ExtractionConfidence float64   `json:"extraction_confidence,omitempty"` // 0-1
	Status               string    `json:"status"`
	CreatedAt            Timestamp `json:"created_at"`
}

// ClaimDetail is the single-claim payload with its article title and investigation
type ClaimDetail struct {
	Claim
	ArticleTitle  *string               `json:"article_title,omitempty"`
	Investigation *InvestigationSummary `json:"investigation,omitempty"`
}

// InvestigationSummary is the short investigation projection attached to a claim
type InvestigationSummary struct {
	ID              string  `json:"id"`
	Verdict         Verdict `json:"verdict"`
	ConfidenceScore float64 `json:"confidence_score"`
	Summary         string  `json:"summary"`
	EvidenceCount   int     `json:"evidence_count"`
}
