package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/factdash/internal/view"
)

// claimColumnWidth caps the claim text column of list tables
const claimColumnWidth = 60

// Investigations prints the investigation grid as a table
func (p *Printer) Investigations(cards []view.InvestigationCard, total int, pagination view.Pagination) error {
	if len(cards) == 0 {
		p.Print("No investigations found")
		return nil
	}

	t := p.NewTable("ID", "Verdict", "Confidence", "Evidence", "Propaganda", "Claim")
	for _, c := range cards {
		propaganda := ""
		if c.PropagandaAlert {
			propaganda = c.AlertText()
		}
		verdict := p.Verdict(c.Verdict.Verdict, c.Verdict.Label)
		if c.InProgress {
			verdict += " " + p.Dim("(in progress)")
		}
		t.AddRow(
			c.ID,
			verdict,
			strconv.Itoa(c.Confidence)+"%",
			c.EvidenceLine(),
			propaganda,
			view.Truncate(c.ClaimText, claimColumnWidth),
		)
	}
	if err := t.Render(); err != nil {
		return err
	}

	p.Print("")
	p.Print("%s", p.Dim(fmt.Sprintf("Showing %d of %d investigations", len(cards), total)))
	if pagination.Show() {
		p.Print("%s", p.Dim(pagination.Label))
	}
	return nil
}

// Investigation prints one investigation in full
func (p *Printer) Investigation(d view.InvestigationDetail) error {
	p.Header("Investigation " + d.ID)
	p.Print("%s", d.ClaimText)
	p.Print("")

	verdict := p.Verdict(d.Verdict.Verdict, d.Verdict.Label)
	if d.InProgress {
		verdict += " " + p.Dim("(in progress)")
	}
	p.Print("Verdict:     %s", verdict)
	p.Print("Confidence:  %d%%", d.Confidence)
	p.Print("Reliability: %d%% average source reliability", d.SourceReliability)

	if d.Summary != "" {
		p.Header("Summary")
		p.Print("%s", d.Summary)
	}
	if d.Reasoning != "" {
		p.Header("Reasoning")
		p.Print("%s", d.Reasoning)
	}
	if len(d.ActuallyTrue) > 0 {
		p.Header("What's actually true")
		for _, ev := range d.ActuallyTrue {
			p.Print("- %s: %s", p.Bold(ev.SourceName), ev.Snippet)
		}
	}

	if d.HasEvidence() {
		p.Header(fmt.Sprintf("Evidence (%d)", d.EvidenceCount))
		t := p.NewTable("Stance", "Source", "Reliability", "Relevance", "Snippet")
		for _, group := range [][]view.EvidenceItem{d.Supporting, d.Refuting, d.Neutral} {
			for _, ev := range group {
				t.AddRow(
					string(ev.Stance),
					ev.SourceName,
					strconv.Itoa(ev.Reliability)+"%",
					strconv.Itoa(ev.Relevance)+"%",
					view.Truncate(ev.Snippet, claimColumnWidth),
				)
			}
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	if len(d.Techniques) > 0 {
		p.Header(fmt.Sprintf("Propaganda Techniques (overall %d%%)", d.PropagandaScore))
		for _, tech := range d.Techniques {
			p.Print("- %s (%d%%)", tech.Name, tech.Confidence)
			if tech.Evidence != "" {
				p.Print("  %s", p.Dim(strconv.Quote(tech.Evidence)))
			}
		}
	}

	links := make([]string, 0, 2)
	if d.ClaimHref != "" {
		links = append(links, "claim "+strings.TrimPrefix(d.ClaimHref, "/claims/"))
	}
	if d.ArticleHref != "" {
		links = append(links, "article "+strings.TrimPrefix(d.ArticleHref, "/articles/"))
	}
	if len(links) > 0 {
		p.Print("")
		p.Print("%s", p.Dim(strings.Join(links, " · ")))
	}
	return nil
}

// Articles prints the article list as a table
func (p *Printer) Articles(cards []view.ArticleCard, total int, pagination view.Pagination) error {
	if len(cards) == 0 {
		p.Print("No articles found")
		return nil
	}

	t := p.NewTable("ID", "Status", "Claims", "Source", "Published", "Title")
	for _, c := range cards {
		t.AddRow(
			c.ID,
			c.Status,
			strconv.Itoa(c.ClaimCount),
			c.Source,
			c.Published,
			view.Truncate(c.Title, claimColumnWidth),
		)
	}
	if err := t.Render(); err != nil {
		return err
	}

	p.Print("")
	p.Print("%s", p.Dim(fmt.Sprintf("%d articles", total)))
	if pagination.Show() {
		p.Print("%s", p.Dim(pagination.Label))
	}
	return nil
}

// Article prints one article with its claims
func (p *Printer) Article(d view.ArticleDetail) error {
	p.Header(d.Title)

	meta := make([]string, 0, 4)
	for _, s := range []string{d.Source, d.Author, d.Published, d.Status} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	p.Print("%s", p.Dim(strings.Join(meta, " · ")))
	if d.URL != "" {
		p.Print("%s", d.URL)
	}

	for _, para := range d.Paragraphs {
		p.Print("")
		p.Print("%s", para)
	}

	p.Header(fmt.Sprintf("Claims (%d)", len(d.Claims)))
	if len(d.Claims) == 0 {
		p.Print("No claims extracted yet")
		return nil
	}
	t := p.NewTable("ID", "Status", "Claim")
	for _, c := range d.Claims {
		t.AddRow(strings.TrimPrefix(c.Href, "/claims/"), c.Status, view.Truncate(c.Text, claimColumnWidth))
	}
	return t.Render()
}

// Claim prints one claim and its verdict
func (p *Printer) Claim(d view.ClaimDetail) error {
	p.Header("Claim " + d.ID)
	p.Print("%s", d.Text)
	if d.Context != "" {
		p.Print("%s", p.Dim("Context: "+d.Context))
	}
	p.Print("")
	p.Print("Status: %s", d.Status)
	if d.Type != "" {
		p.Print("Type:   %s", d.Type)
	}
	if d.ArticleHref != "" {
		p.Print("From:   %s (%s)", d.ArticleTitle, strings.TrimPrefix(d.ArticleHref, "/articles/"))
	}

	inv := d.Investigation
	if inv == nil {
		p.Print("")
		p.Print("Not yet investigated")
		return nil
	}
	p.Header("Investigation")
	p.Print("%s %d%% confidence · %d sources", p.Verdict(inv.Verdict.Verdict, inv.Verdict.Label), inv.Confidence, inv.EvidenceCount)
	if inv.Summary != "" {
		p.Print("%s", inv.Summary)
	}
	return nil
}

// Dashboard prints the analytics dashboard
func (p *Printer) Dashboard(d view.Dashboard, updated string) error {
	p.Header("Analytics Dashboard")
	if updated != "" {
		p.Print("%s", p.Dim("Updated "+updated))
	}

	overview := p.NewTable("Metric", "Value")
	for _, card := range d.Overview {
		overview.AddRow(card.Title, card.Value)
	}
	if err := overview.Render(); err != nil {
		return err
	}

	p.Header("Verdict Distribution")
	if len(d.Distribution) == 0 {
		p.Print("No investigations yet")
	}
	for _, slice := range d.Distribution {
		p.Print("%-24s %s %d (%d%%)", p.Verdict(slice.Verdict.Verdict, slice.Verdict.Label), bar(slice.Share), slice.Count, slice.Share)
	}

	p.Header("Recent Activity (" + d.ActivityRange + ")")
	printBars(p, d.Activity)

	p.Header("Quality Metrics")
	printBars(p, d.Quality)

	p.Header("Processing Queue")
	for _, q := range d.Queue {
		p.Print("%-20s %d", q.Label, q.Count)
	}

	p.Header("Trending Claims")
	if len(d.Trending) == 0 {
		p.Print("No trending claims yet")
	}
	for _, c := range d.Trending {
		p.Print("%s %s", p.Verdict(c.Verdict.Verdict, c.Verdict.Label), c.Short)
		p.Print("  %s", p.Dim(fmt.Sprintf("Confidence: %d%% · Articles: %d", c.Confidence, c.ArticleCount)))
	}

	p.Header("Top Propaganda Techniques")
	if len(d.Techniques) == 0 {
		p.Print("No techniques detected")
	}
	printBars(p, d.Techniques)

	if len(d.Sources) > 0 {
		p.Header("Problematic Sources")
		t := p.NewTable("Source", "Articles", "Score", "Risk")
		for _, s := range d.Sources {
			t.AddRow(s.Name, strconv.Itoa(s.ArticleCount), strconv.Itoa(s.Score)+"%", s.Risk)
		}
		return t.Render()
	}
	return nil
}

func printBars(p *Printer, bars []view.Bar) {
	for _, b := range bars {
		p.Print("%-24s %s %s", b.Label, bar(b.Width), b.Value)
	}
}

// bar draws a 20-cell horizontal bar for a 0-100 width
func bar(width int) string {
	filled := width / 5
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}
