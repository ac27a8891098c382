package view

import (
	"net/url"
	"time"

	"github.com/ppiankov/factdash/internal/model"
)

// ArticleCard is one row of the article list
type ArticleCard struct {
	ID                 string
	Href               string
	Title              string
	URL                string
	Source             string
	Author             string
	Published          string
	Status             string
	Analyzed           bool
	ClaimCount         int
	InvestigationCount int
}

// NewArticleCard builds the list row for a
func NewArticleCard(a model.Article) ArticleCard {
	card := ArticleCard{
		ID:                 a.ID,
		Href:               "/articles/" + url.PathEscape(a.ID),
		Title:              PlainText(a.Title),
		URL:                safeURL(a.URL),
		Status:             Humanize(a.Status),
		Analyzed:           a.Status == model.ArticleStatusAnalyzed,
		ClaimCount:         a.ClaimCount,
		InvestigationCount: a.InvestigationCount,
	}
	if card.Title == "" {
		card.Title = "Untitled article"
	}
	if a.SourceName != nil {
		card.Source = PlainText(*a.SourceName)
	}
	if a.Author != nil {
		card.Author = PlainText(*a.Author)
	}
	if a.PublishedAt != nil {
		card.Published = FormatDate(a.PublishedAt.Time)
	}
	return card
}

// ClaimRow is one extracted claim listed under an article
type ClaimRow struct {
	Href   string
	Text   string
	Status string
}

// ArticleDetail is the single article page
type ArticleDetail struct {
	ArticleCard
	Paragraphs []string
	Claims     []ClaimRow
	Fetched    string
}

// NewArticleDetail builds the article page for a
func NewArticleDetail(a *model.ArticleDetail, now time.Time) ArticleDetail {
	d := ArticleDetail{
		ArticleCard: NewArticleCard(a.Article),
		Fetched:     RelativeTime(a.CreatedAt.Time, now),
	}
	if a.Content != nil {
		d.Paragraphs = Paragraphs(*a.Content)
	}
	for _, c := range a.Claims {
		d.Claims = append(d.Claims, ClaimRow{
			Href:   "/claims/" + url.PathEscape(c.ID),
			Text:   PlainText(c.ClaimText),
			Status: Humanize(c.Status),
		})
	}
	return d
}

// ClaimInvestigation is the verdict block on the claim page
type ClaimInvestigation struct {
	Href          string
	Verdict       VerdictBadge
	Confidence    int
	Summary       string
	EvidenceCount int
}

// ClaimDetail is the single claim page
type ClaimDetail struct {
	ID                   string
	Text                 string
	Context              string
	Type                 string
	Status               string
	Checkable            bool
	ExtractionConfidence int
	ArticleTitle         string
	ArticleHref          string
	Created              string
	Investigation        *ClaimInvestigation
}

// NewClaimDetail builds the claim page for c
func NewClaimDetail(c *model.ClaimDetail) ClaimDetail {
	d := ClaimDetail{
		ID:                   c.ID,
		Text:                 PlainText(c.ClaimText),
		Context:              PlainText(c.Context),
		Type:                 Humanize(c.ClaimType),
		Status:               Humanize(c.Status),
		Checkable:            c.IsCheckable,
		ExtractionConfidence: Percent(c.ExtractionConfidence),
		Created:              FormatDate(c.CreatedAt.Time),
	}
	if c.ArticleID != "" {
		d.ArticleHref = "/articles/" + url.PathEscape(c.ArticleID)
		d.ArticleTitle = "Source article"
	}
	if c.ArticleTitle != nil && *c.ArticleTitle != "" {
		d.ArticleTitle = PlainText(*c.ArticleTitle)
	}
	if inv := c.Investigation; inv != nil {
		d.Investigation = &ClaimInvestigation{
			Href:          "/investigations?selected=" + url.QueryEscape(inv.ID),
			Verdict:       VerdictStyle(inv.Verdict),
			Confidence:    Percent(inv.ConfidenceScore),
			Summary:       PlainText(inv.Summary),
			EvidenceCount: inv.EvidenceCount,
		}
	}
	return d
}
