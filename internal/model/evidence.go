package model

// Evidence represents a source retrieved by the backend for an investigation
type Evidence struct {
	ID                string     `json:"id"`
	InvestigationID   string     `json:"investigation_id,omitempty"`
	SourceURL         string     `json:"source_url,omitempty"`
	SourceName        string     `json:"source_name"`
	SourceReliability float64    `json:"source_reliability"` // 0-1
	Snippet           string     `json:"snippet"`
	Context           string     `json:"context,omitempty"`
	Stance            Stance     `json:"stance"`
	RelevanceScore    float64    `json:"relevance_score"` // 0-1
	PublishedAt       *Timestamp `json:"published_at,omitempty"`
	CreatedAt         Timestamp  `json:"created_at,omitempty"`
}

// Stance is the position a piece of evidence takes toward a claim
type Stance string

const (
	StanceSupporting Stance = "supporting"
	StanceRefuting   Stance = "refuting"
	StanceNeutral    Stance = "neutral"
)

// Normalize maps unknown stances to neutral
func (s Stance) Normalize() Stance {
	switch s {
	case StanceSupporting, StanceRefuting:
		return s
	default:
		return StanceNeutral
	}
}
