package view

import (
	"strconv"
	"time"

	"github.com/ppiankov/factdash/internal/model"
)

// TrendingClaimLength is how many characters of a trending claim show collapsed
const TrendingClaimLength = 100

// StatCard is one overview tile
type StatCard struct {
	Title string
	Value string
	Color string
}

// DistributionSlice is one verdict's share of all investigations
type DistributionSlice struct {
	Verdict VerdictBadge
	Count   int
	Share   int // Percent of the total
}

// Bar is a labelled horizontal bar
type Bar struct {
	Label string
	Value string
	Width int // 0-100
	Class string
	Color string
}

// QueueItem is one processing-queue counter
type QueueItem struct {
	Label  string
	Count  int
	Active bool // Currently being processed rather than waiting
}

// TrendingClaimView is a trending claim, truncated until expanded
type TrendingClaimView struct {
	Full         string
	Short        string
	Truncated    bool
	Verdict      VerdictBadge
	Confidence   int
	ArticleCount int
}

// SourceRow is one problematic source
type SourceRow struct {
	Name         string
	ArticleCount int
	Score        int
	Risk         string
}

// Dashboard is the analytics page
type Dashboard struct {
	Overview          []StatCard
	Distribution      []DistributionSlice
	DistributionTotal int
	ActivityRange     string
	Activity          []Bar
	Quality           []Bar
	Queue             []QueueItem
	Trending          []TrendingClaimView
	Techniques        []Bar
	Sources           []SourceRow
}

// NewDashboard builds the analytics page from the statistics payload
func NewDashboard(s *model.DashboardStats, now time.Time) Dashboard {
	d := Dashboard{
		Overview:      overviewCards(s.Overview, now),
		ActivityRange: s.RecentActivity.TimeRange,
		Activity:      activityBars(s.RecentActivity),
		Quality:       qualityBars(s.QualityMetrics),
		Queue: []QueueItem{
			{Label: "Pending Articles", Count: s.ProcessingQueue.PendingArticles},
			{Label: "Processing Articles", Count: s.ProcessingQueue.ProcessingArticles, Active: true},
			{Label: "Pending Claims", Count: s.ProcessingQueue.PendingClaims},
			{Label: "Checking Claims", Count: s.ProcessingQueue.CheckingClaims, Active: true},
		},
	}

	d.DistributionTotal = s.VerdictDistribution.Total()
	for _, v := range model.Verdicts {
		count := s.VerdictDistribution.Count(v)
		if count == 0 {
			continue
		}
		d.Distribution = append(d.Distribution, DistributionSlice{
			Verdict: VerdictStyle(v),
			Count:   count,
			Share:   BarWidth(float64(count), float64(d.DistributionTotal)),
		})
	}

	for _, c := range s.TrendingClaims {
		full := PlainText(c.ClaimText)
		short := Truncate(full, TrendingClaimLength)
		d.Trending = append(d.Trending, TrendingClaimView{
			Full:         full,
			Short:        short,
			Truncated:    short != full,
			Verdict:      VerdictStyle(c.Verdict),
			Confidence:   Percent(c.Confidence),
			ArticleCount: c.ArticleCount,
		})
	}

	techniques := s.PropagandaAnalysis.TopTechniques
	if len(techniques) > 0 {
		top := float64(techniques[0].Count)
		for _, t := range techniques {
			d.Techniques = append(d.Techniques, Bar{
				Label: Humanize(t.Technique),
				Value: strconv.Itoa(t.Count),
				Width: BarWidth(float64(t.Count), top),
			})
		}
	}

	for _, src := range s.PropagandaAnalysis.ProblematicSources {
		d.Sources = append(d.Sources, SourceRow{
			Name:         PlainText(src.SourceName),
			ArticleCount: src.ArticleCount,
			Score:        Percent(src.PropagandaScore),
			Risk:         SourceRiskClass(src.PropagandaScore),
		})
	}

	return d
}

func overviewCards(o model.OverviewStats, now time.Time) []StatCard {
	lastIngestion := "Never"
	if o.LastIngestion != nil {
		lastIngestion = RelativeTime(o.LastIngestion.Time, now)
	}

	return []StatCard{
		{Title: "Total Articles", Value: strconv.Itoa(o.TotalArticles), Color: "blue"},
		{Title: "Total Claims", Value: strconv.Itoa(o.TotalClaims), Color: "green"},
		{Title: "Total Investigations", Value: strconv.Itoa(o.TotalInvestigations), Color: "yellow"},
		{Title: "Last Ingestion", Value: lastIngestion, Color: "gray"},
	}
}

func activityBars(a model.RecentActivity) []Bar {
	bars := []Bar{
		{Label: "Articles", Value: strconv.Itoa(a.NewArticles), Color: "#3b82f6"},
		{Label: "Claims", Value: strconv.Itoa(a.NewClaims), Color: "#10b981"},
		{Label: "Investigations", Value: strconv.Itoa(a.NewInvestigations), Color: "#f59e0b"},
	}

	counts := []int{a.NewArticles, a.NewClaims, a.NewInvestigations}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	for i := range bars {
		bars[i].Width = BarWidth(float64(counts[i]), float64(max))
	}
	return bars
}

func qualityBars(q model.QualityMetrics) []Bar {
	metric := func(label string, v float64, inverse bool) Bar {
		p := Percent(v)
		return Bar{
			Label: label,
			Value: strconv.Itoa(p) + "%",
			Width: BarWidth(float64(p), 100),
			Class: QualityClass(v, inverse),
		}
	}

	return []Bar{
		metric("Avg Confidence", q.AvgConfidence, false),
		metric("Avg Source Reliability", q.AvgSourceReliability, false),
		metric("Avg Propaganda Score", q.AvgPropagandaScore, true),
	}
}
