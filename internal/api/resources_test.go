package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factdash/internal/model"
)

func TestInvestigationsQuery_Values(t *testing.T) {
	tests := []struct {
		name  string
		query InvestigationsQuery
		want  string
	}{
		{"defaults", InvestigationsQuery{Limit: 20}, "limit=20&offset=0"},
		{"verdict", InvestigationsQuery{Limit: 20, Offset: 40, Verdict: model.VerdictFalse}, "limit=20&offset=40&verdict=false"},
		{"all filters", InvestigationsQuery{Limit: 20, Verdict: model.VerdictFalse, MinConfidence: 0.5}, "limit=20&min_confidence=0.5&offset=0&verdict=false"},
		{"zero confidence omitted", InvestigationsQuery{Limit: 10, MinConfidence: 0}, "limit=10&offset=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Values().Encode())
		})
	}
}

func TestOtherQueries_Values(t *testing.T) {
	assert.Equal(t, "limit=12&offset=24&source_id=s1", ArticlesQuery{Limit: 12, Offset: 24, SourceID: "s1"}.Values().Encode())
	assert.Equal(t, "article_id=a1&offset=0&status=pending", ClaimsQuery{ArticleID: "a1", Status: "pending"}.Values().Encode())
	assert.Equal(t, "time_range=24h", StatsQuery{}.Values().Encode())
	assert.Equal(t, "time_range=7d", StatsQuery{TimeRange: model.TimeRange7d}.Values().Encode())
}

func TestListInvestigations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/investigations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "false", q.Get("verdict"))
		assert.Equal(t, "0.5", q.Get("min_confidence"))

		_, _ = fmt.Fprint(w, `{
			"items": [{
				"id": "inv-1",
				"claim_id": "claim-1",
				"claim_text": "The moon is made of cheese",
				"verdict": "false",
				"confidence_score": 0.91,
				"summary": "No.",
				"propaganda_signals": {"techniques_detected": [], "overall_propaganda_score": 0.1},
				"source_reliability_avg": 0.8,
				"evidence_count": 5,
				"supporting_evidence_count": 0,
				"refuting_evidence_count": 4,
				"status": "completed",
				"created_at": "2024-05-01T10:00:00Z",
				"updated_at": "2024-05-01T10:05:00Z"
			}],
			"total": 41, "limit": 20, "offset": 0
		}`)
	})

	page, err := client.ListInvestigations(context.Background(), InvestigationsQuery{
		Limit:         20,
		Verdict:       model.VerdictFalse,
		MinConfidence: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	require.Len(t, page.Items, 1)

	inv := page.Items[0]
	assert.Equal(t, model.VerdictFalse, inv.Verdict)
	assert.Equal(t, "The moon is made of cheese", inv.DisplayClaimText())
	assert.Equal(t, 4, inv.RefutingEvidenceCount)
}

func TestGetArticle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/articles/a-1", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = fmt.Fprint(w, `{
			"id": "a-1", "title": "Headline", "url": "https://news.example/a-1",
			"author": null, "status": "analyzed", "claim_count": 2,
			"created_at": "2024-05-01T10:00:00Z",
			"claims": [{"id": "c-1", "claim_text": "X happened", "status": "completed"}]
		}`)
	})

	article, err := client.GetArticle(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Headline", article.Title)
	assert.Nil(t, article.Author)
	require.Len(t, article.Claims, 1)
	assert.Equal(t, "X happened", article.Claims[0].ClaimText)
}

func TestGetClaim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/claims/c-1", r.URL.Path)
		_, _ = fmt.Fprint(w, `{
			"id": "c-1", "article_id": "a-1", "claim_text": "X happened",
			"is_checkable": true, "status": "completed", "created_at": "2024-05-01T10:00:00Z",
			"article_title": "Headline",
			"investigation": {"id": "inv-1", "verdict": "mostly_true", "confidence_score": 0.7, "summary": "Mostly.", "evidence_count": 3}
		}`)
	})

	claim, err := client.GetClaim(context.Background(), "c-1")
	require.NoError(t, err)
	require.NotNil(t, claim.ArticleTitle)
	assert.Equal(t, "Headline", *claim.ArticleTitle)
	require.NotNil(t, claim.Investigation)
	assert.Equal(t, model.VerdictMostlyTrue, claim.Investigation.Verdict)
}

func TestGetDashboardStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stats/overview", r.URL.Path)
		assert.Equal(t, "30d", r.URL.Query().Get("time_range"))
		_, _ = fmt.Fprint(w, `{
			"overview": {"total_articles": 10, "total_claims": 30, "total_investigations": 25, "last_ingestion": null},
			"verdict_distribution": {"true": 5, "mostly_true": 4, "mixed": 3, "mostly_false": 2, "false": 6, "unverifiable": 5},
			"recent_activity": {"time_range": "30d", "new_articles": 3, "new_claims": 9, "new_investigations": 7},
			"quality_metrics": {"avg_confidence": 0.74, "avg_propaganda_score": 0.21, "avg_source_reliability": 0.66},
			"processing_queue": {"pending_articles": 1, "processing_articles": 0, "pending_claims": 4, "checking_claims": 2},
			"trending_claims": [],
			"propaganda_analysis": {"top_techniques": [{"technique": "loaded_language", "count": 7}], "problematic_sources": []}
		}`)
	})

	stats, err := client.GetDashboardStats(context.Background(), StatsQuery{TimeRange: model.TimeRange30d})
	require.NoError(t, err)
	assert.Equal(t, 25, stats.VerdictDistribution.Total())
	assert.Equal(t, "30d", stats.RecentActivity.TimeRange)
	assert.Nil(t, stats.Overview.LastIngestion)
	require.Len(t, stats.PropagandaAnalysis.TopTechniques, 1)
}

func TestListInvestigations_NaiveTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{
			"items": [{
				"id": "inv-1", "claim_id": "claim-1", "verdict": "mixed",
				"confidence_score": 0.5, "summary": "", "status": "completed",
				"propaganda_signals": {"techniques_detected": [], "overall_propaganda_score": 0},
				"created_at": "2024-05-01T10:00:00.123456",
				"updated_at": "2024-05-01T10:05:00"
			}],
			"total": 1, "limit": 20, "offset": 0
		}`)
	})

	page, err := client.ListInvestigations(context.Background(), InvestigationsQuery{Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	inv := page.Items[0]
	assert.True(t, inv.CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)))
	assert.True(t, inv.UpdatedAt.Equal(time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)))
}

func TestGetArticleAndStats_NaiveTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/articles/a-1":
			_, _ = fmt.Fprint(w, `{
				"id": "a-1", "title": "Headline", "url": "https://news.example/a-1", "status": "analyzed",
				"published_at": "2024-04-30T08:00:00", "created_at": "2024-05-01T10:00:00.5",
				"updated_at": null, "claims": []
			}`)
		case "/api/v1/stats/overview":
			_, _ = fmt.Fprint(w, `{
				"overview": {"total_articles": 1, "total_claims": 0, "total_investigations": 0,
					"last_ingestion": "2024-05-01T09:59:59.999999"}
			}`)
		default:
			http.NotFound(w, r)
		}
	})

	article, err := client.GetArticle(context.Background(), "a-1")
	require.NoError(t, err)
	require.NotNil(t, article.PublishedAt)
	assert.Equal(t, 8, article.PublishedAt.Hour())
	assert.Nil(t, article.UpdatedAt)

	stats, err := client.GetDashboardStats(context.Background(), StatsQuery{})
	require.NoError(t, err)
	require.NotNil(t, stats.Overview.LastIngestion)
	assert.Equal(t, 2024, stats.Overview.LastIngestion.Year())
}
