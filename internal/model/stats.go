package model

import "fmt"

// DashboardStats is the aggregate statistics payload behind the dashboard
type DashboardStats struct {
	Overview            OverviewStats       `json:"overview"`
	VerdictDistribution VerdictDistribution `json:"verdict_distribution"`
	RecentActivity      RecentActivity      `json:"recent_activity"`
	QualityMetrics      QualityMetrics      `json:"quality_metrics"`
	ProcessingQueue     ProcessingQueue     `json:"processing_queue"`
	TrendingClaims      []TrendingClaim     `json:"trending_claims"`
	PropagandaAnalysis  PropagandaAnalysis  `json:"propaganda_analysis"`
}

// OverviewStats holds all-time totals
type OverviewStats struct {
	TotalArticles       int        `json:"total_articles"`
	TotalClaims         int        `json:"total_claims"`
	TotalInvestigations int        `json:"total_investigations"`
	LastIngestion       *Timestamp `json:"last_ingestion"`
}

// VerdictDistribution counts investigations per verdict
type VerdictDistribution struct {
	True         int `json:"true"`
	MostlyTrue   int `json:"mostly_true"`
	Mixed        int `json:"mixed"`
	MostlyFalse  int `json:"mostly_false"`
	False        int `json:"false"`
	Unverifiable int `json:"unverifiable"`
}

// Count returns the count for v; unknown verdicts count as unverifiable
func (d VerdictDistribution) Count(v Verdict) int {
	switch v.Normalize() {
	case VerdictTrue:
		return d.True
	case VerdictMostlyTrue:
		return d.MostlyTrue
	case VerdictMixed:
		return d.Mixed
	case VerdictMostlyFalse:
		return d.MostlyFalse
	case VerdictFalse:
		return d.False
	default:
		return d.Unverifiable
	}
}

// Total sums all verdict counts
func (d VerdictDistribution) Total() int {
	return d.True + d.MostlyTrue + d.Mixed + d.MostlyFalse + d.False + d.Unverifiable
}

// RecentActivity counts new records within the requested time range
type RecentActivity struct {
	TimeRange         string `json:"time_range"`
	NewArticles       int    `json:"new_articles"`
	NewClaims         int    `json:"new_claims"`
	NewInvestigations int    `json:"new_investigations"`
}

// QualityMetrics are averages over completed investigations
type QualityMetrics struct {
	AvgConfidence        float64 `json:"avg_confidence"`
	AvgPropagandaScore   float64 `json:"avg_propaganda_score"`
	AvgSourceReliability float64 `json:"avg_source_reliability"`
}

// ProcessingQueue reports backlog in the backend pipeline
type ProcessingQueue struct {
	PendingArticles    int `json:"pending_articles"`
	ProcessingArticles int `json:"processing_articles"`
	PendingClaims      int `json:"pending_claims"`
	CheckingClaims     int `json:"checking_claims"`
}

// TrendingClaim is a claim that appears across several articles
type TrendingClaim struct {
	ClaimText    string  `json:"claim_text"`
	Verdict      Verdict `json:"verdict"`
	Confidence   float64 `json:"confidence"`
	ArticleCount int     `json:"article_count"`
}

// PropagandaAnalysis lists the most used techniques and the worst sources
type PropagandaAnalysis struct {
	TopTechniques      []TechniqueCount    `json:"top_techniques"`
	ProblematicSources []ProblematicSource `json:"problematic_sources"`
}

// TechniqueCount is how often a propaganda technique was detected
type TechniqueCount struct {
	Technique string `json:"technique"`
	Count     int    `json:"count"`
}

// ProblematicSource is a news source with a high average propaganda score
type ProblematicSource struct {
	SourceName      string  `json:"source_name"`
	PropagandaScore float64 `json:"propaganda_score"`
	ArticleCount    int     `json:"article_count"`
}

// TimeRange selects the window for recent activity statistics
type TimeRange string

const (
	TimeRange24h TimeRange = "24h"
	TimeRange7d  TimeRange = "7d"
	TimeRange30d TimeRange = "30d"
)

// TimeRanges lists the supported ranges in display order
var TimeRanges = []TimeRange{TimeRange24h, TimeRange7d, TimeRange30d}

// ParseTimeRange validates a time range string; empty means 24h
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case "":
		return TimeRange24h, nil
	case TimeRange24h, TimeRange7d, TimeRange30d:
		return TimeRange(s), nil
	default:
		return "", fmt.Errorf("invalid time range %q: must be 24h, 7d, or 30d", s)
	}
}

// Label returns the human-readable name of the range
func (t TimeRange) Label() string {
	switch t {
	case TimeRange7d:
		return "Last 7 Days"
	case TimeRange30d:
		return "Last 30 Days"
	default:
		return "Last 24 Hours"
	}
}
