package model

// Article represents an ingested news article as returned by the backend
type Article struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	URL                string     `json:"url"`
	Author             *string    `json:"author,omitempty"`
	PublishedAt        *Timestamp `json:"published_at,omitempty"`
	SourceID           string     `json:"source_id,omitempty"`
	SourceName         *string    `json:"source_name,omitempty"`
	Status             string     `json:"status"` // pending, processing, analyzed, ...
	ClaimCount         int        `json:"claim_count"`
	InvestigationCount int        `json:"investigation_count,omitempty"` // Completed investigations across its claims
	CreatedAt          Timestamp  `json:"created_at"`
	UpdatedAt          *Timestamp `json:"updated_at,omitempty"`
}

// ArticleStatusAnalyzed marks an article whose claims have been extracted
const ArticleStatusAnalyzed = "analyzed"

// ArticleDetail is the single-article payload, with its extracted claims
type ArticleDetail struct {
	Article
	Content *string        `json:"content,omitempty"`
	Claims  []ClaimSummary `json:"claims"`
}

// ClaimSummary is the short claim projection embedded in an article detail
type ClaimSummary struct {
	ID        string `json:"id"`
	ClaimText string `json:"claim_text"`
	Status    string `json:"status"`
}
