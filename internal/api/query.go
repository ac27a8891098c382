package api

import (
	"net/url"
	"strconv"

	"github.com/ppiankov/factdash/internal/model"
)

// ArticlesQuery selects a page of articles
type ArticlesQuery struct {
	Limit    int
	Offset   int
	SourceID string // Optional
	Status   string // Optional
}

// Values serializes the query; empty optional fields are omitted
func (q ArticlesQuery) Values() url.Values {
	v := pageValues(q.Limit, q.Offset)
	setIf(v, "source_id", q.SourceID)
	setIf(v, "status", q.Status)
	return v
}

// ClaimsQuery selects a page of claims
type ClaimsQuery struct {
	Limit     int
	Offset    int
	ArticleID string // Optional
	Status    string // Optional
}

// Values serializes the query; empty optional fields are omitted
func (q ClaimsQuery) Values() url.Values {
	v := pageValues(q.Limit, q.Offset)
	setIf(v, "article_id", q.ArticleID)
	setIf(v, "status", q.Status)
	return v
}

// InvestigationsQuery selects a page of investigations
type InvestigationsQuery struct {
	Limit         int
	Offset        int
	Verdict       model.Verdict // Empty means no filter
	MinConfidence float64       // 0 means no filter
}

// Values serializes the query; verdict and min_confidence are only sent when set
func (q InvestigationsQuery) Values() url.Values {
	v := pageValues(q.Limit, q.Offset)
	setIf(v, "verdict", string(q.Verdict))
	if q.MinConfidence > 0 {
		v.Set("min_confidence", strconv.FormatFloat(q.MinConfidence, 'f', -1, 64))
	}
	return v
}

// StatsQuery selects the recent-activity window of the dashboard statistics
type StatsQuery struct {
	TimeRange model.TimeRange // Empty means 24h
}

// Values serializes the query
func (q StatsQuery) Values() url.Values {
	tr := q.TimeRange
	if tr == "" {
		tr = model.TimeRange24h
	}
	return url.Values{"time_range": []string{string(tr)}}
}

func pageValues(limit, offset int) url.Values {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset < 0 {
		offset = 0
	}
	v.Set("offset", strconv.Itoa(offset))
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
