package view

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ppiankov/factdash/internal/model"
)

// PropagandaAlertThreshold is the overall score above which cards show an alert
const PropagandaAlertThreshold = 0.5

// NoClaimText is shown when an investigation carries no claim text
const NoClaimText = "No claim text available"

// InvestigationCard is one tile of the investigations grid
type InvestigationCard struct {
	ID              string
	Href            string // Set by the page; opens the detail overlay
	Verdict         VerdictBadge
	InProgress      bool
	ClaimText       string
	Summary         string
	Confidence      int
	ConfidenceClass string
	Supporting      int
	Refuting        int
	EvidenceCount   int
	PropagandaAlert bool
	PropagandaScore int
	CreatedDate     string
}

// EvidenceLine renders supporting / refuting counts, e.g. "3 / 2 (of 5)"
func (c InvestigationCard) EvidenceLine() string {
	return fmt.Sprintf("%d / %d (of %d)", c.Supporting, c.Refuting, c.EvidenceCount)
}

// AlertText is the propaganda alert copy, e.g. "62% confidence"
func (c InvestigationCard) AlertText() string {
	return fmt.Sprintf("%d%% confidence", c.PropagandaScore)
}

// AriaLabel describes the card for screen readers
func (c InvestigationCard) AriaLabel() string {
	return fmt.Sprintf("Investigation: %s. Verdict: %s. Confidence: %d%%", c.ClaimText, c.Verdict.Label, c.Confidence)
}

// NewInvestigationCard builds the grid tile for inv
func NewInvestigationCard(inv model.Investigation) InvestigationCard {
	claimText := PlainText(inv.DisplayClaimText())
	if claimText == "" {
		claimText = NoClaimText
	}

	score := inv.PropagandaSignals.OverallPropagandaScore

	return InvestigationCard{
		ID:              inv.ID,
		Verdict:         VerdictStyle(inv.Verdict),
		InProgress:      inv.Status == model.InvestigationInProgress,
		ClaimText:       claimText,
		Summary:         PlainText(inv.Summary),
		Confidence:      Percent(inv.ConfidenceScore),
		ConfidenceClass: ConfidenceClass(inv.ConfidenceScore),
		Supporting:      inv.SupportingEvidenceCount,
		Refuting:        inv.RefutingEvidenceCount,
		EvidenceCount:   inv.EvidenceCount,
		PropagandaAlert: score > PropagandaAlertThreshold,
		PropagandaScore: Percent(score),
		CreatedDate:     FormatDate(inv.CreatedAt.Time),
	}
}

// EvidenceItem is one piece of evidence in the detail view
type EvidenceItem struct {
	SourceName  string
	SourceURL   string
	Snippet     string
	Stance      model.Stance
	Reliability int
	Relevance   int
	Published   string
}

// TechniqueItem is one detected propaganda technique
type TechniqueItem struct {
	Name       string
	Confidence int
	Evidence   string
}

// InvestigationDetail is the full investigation shown in the overlay
type InvestigationDetail struct {
	ID                string
	ClaimText         string
	ClaimHref         string
	ArticleHref       string
	Verdict           VerdictBadge
	InProgress        bool
	Confidence        int
	ConfidenceClass   string
	SourceReliability int
	Summary           string
	Reasoning         string
	EvidenceCount     int
	Supporting        []EvidenceItem
	Refuting          []EvidenceItem
	Neutral           []EvidenceItem
	ActuallyTrue      []EvidenceItem // Refuting evidence, shown when the claim is judged false
	Techniques        []TechniqueItem
	PropagandaScore   int
	CreatedDate       string
	Updated           string
}

// HasEvidence reports whether any evidence was attached
func (d InvestigationDetail) HasEvidence() bool {
	return len(d.Supporting)+len(d.Refuting)+len(d.Neutral) > 0
}

// NewInvestigationDetail builds the overlay view for inv
func NewInvestigationDetail(inv *model.Investigation, now time.Time) InvestigationDetail {
	claimText := PlainText(inv.DisplayClaimText())
	if claimText == "" {
		claimText = NoClaimText
	}

	d := InvestigationDetail{
		ID:                inv.ID,
		ClaimText:         claimText,
		Verdict:           VerdictStyle(inv.Verdict),
		InProgress:        inv.Status == model.InvestigationInProgress,
		Confidence:        Percent(inv.ConfidenceScore),
		ConfidenceClass:   ConfidenceClass(inv.ConfidenceScore),
		SourceReliability: Percent(inv.SourceReliabilityAvg),
		Summary:           PlainText(inv.Summary),
		Reasoning:         sanitizeMultiline(inv.Reasoning),
		PropagandaScore:   Percent(inv.PropagandaSignals.OverallPropagandaScore),
		CreatedDate:       FormatDate(inv.CreatedAt.Time),
	}
	if !inv.UpdatedAt.IsZero() {
		d.Updated = RelativeTime(inv.UpdatedAt.Time, now)
	}

	if inv.ClaimID != "" {
		d.ClaimHref = "/claims/" + url.PathEscape(inv.ClaimID)
	}
	if inv.Claim != nil && inv.Claim.ArticleID != "" {
		d.ArticleHref = "/articles/" + url.PathEscape(inv.Claim.ArticleID)
	}

	for _, ev := range inv.Evidence {
		item := newEvidenceItem(ev)
		switch ev.Stance.Normalize() {
		case model.StanceSupporting:
			d.Supporting = append(d.Supporting, item)
		case model.StanceRefuting:
			d.Refuting = append(d.Refuting, item)
		default:
			d.Neutral = append(d.Neutral, item)
		}
	}
	d.EvidenceCount = len(inv.Evidence)

	if inv.Verdict.Normalize().IsFalseLeaning() {
		d.ActuallyTrue = d.Refuting
	}

	for _, t := range inv.PropagandaSignals.TechniquesDetected {
		d.Techniques = append(d.Techniques, TechniqueItem{
			Name:       Humanize(t.Technique),
			Confidence: Percent(t.Confidence),
			Evidence:   PlainText(t.Evidence),
		})
	}

	return d
}

func newEvidenceItem(ev model.Evidence) EvidenceItem {
	item := EvidenceItem{
		SourceName:  PlainText(ev.SourceName),
		SourceURL:   safeURL(ev.SourceURL),
		Snippet:     PlainText(ev.Snippet),
		Stance:      ev.Stance.Normalize(),
		Reliability: Percent(ev.SourceReliability),
		Relevance:   Percent(ev.RelevanceScore),
	}
	if item.SourceName == "" {
		item.SourceName = "Unknown source"
	}
	if ev.PublishedAt != nil {
		item.Published = FormatDate(ev.PublishedAt.Time)
	}
	return item
}

// sanitizeMultiline strips markup per line and keeps paragraph breaks
func sanitizeMultiline(s string) string {
	lines := splitLines(s)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, PlainText(line))
	}
	return joinLines(out)
}

// safeURL keeps only http(s) links
func safeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}
