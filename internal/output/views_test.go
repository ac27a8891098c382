package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/view"
)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrinterWithWriters(&out, &out, false), &out
}

func TestPrinter_Investigations(t *testing.T) {
	claim := "Unemployment fell to a 50-year low"
	inv := model.Investigation{
		ID:                      "1f0c8a52-5b7e-4c1e-9a57-b0c0a1e2d3f4",
		ClaimText:               &claim,
		Verdict:                 model.VerdictMostlyTrue,
		ConfidenceScore:         0.82,
		EvidenceCount:           5,
		SupportingEvidenceCount: 3,
		RefutingEvidenceCount:   2,
		PropagandaSignals:       model.PropagandaSignals{OverallPropagandaScore: 0.62},
	}

	p, out := newTestPrinter()
	err := p.Investigations([]view.InvestigationCard{view.NewInvestigationCard(inv)}, 45, view.Pagination{Label: "Page 1 of 3", TotalPages: 3})
	if err != nil {
		t.Fatalf("Investigations() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{inv.ID, "[Mostly True]", "82%", "3 / 2 (of 5)", "62% confidence", claim, "Showing 1 of 45 investigations", "Page 1 of 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinter_InvestigationsEmpty(t *testing.T) {
	p, out := newTestPrinter()
	if err := p.Investigations(nil, 0, view.Pagination{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No investigations found") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestPrinter_InvestigationDetail(t *testing.T) {
	inv := &model.Investigation{
		ID:      "1f0c8a52-5b7e-4c1e-9a57-b0c0a1e2d3f4",
		ClaimID: "c7d2f1a0-0000-4000-8000-000000000001",
		Verdict: model.VerdictFalse,
		Summary: "Figures show the opposite.",
		Evidence: []model.Evidence{
			{SourceName: "Bureau of Statistics", Stance: model.StanceRefuting, Snippet: "Rate rose to 4.1%"},
		},
	}

	p, out := newTestPrinter()
	if err := p.Investigation(view.NewInvestigationDetail(inv, time.Now())); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{"[False]", "What's actually true", "Bureau of Statistics: Rate rose to 4.1%", "Evidence (1)", "claim c7d2f1a0-0000-4000-8000-000000000001"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinter_Dashboard(t *testing.T) {
	stats := &model.DashboardStats{
		Overview:            model.OverviewStats{TotalArticles: 120},
		VerdictDistribution: model.VerdictDistribution{True: 1, False: 1},
		RecentActivity:      model.RecentActivity{TimeRange: "7d", NewArticles: 3},
		PropagandaAnalysis: model.PropagandaAnalysis{
			ProblematicSources: []model.ProblematicSource{{SourceName: "Outrage Daily", PropagandaScore: 0.7, ArticleCount: 4}},
		},
	}

	p, out := newTestPrinter()
	if err := p.Dashboard(view.NewDashboard(stats, time.Now()), "2 minutes ago"); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{"Updated 2 minutes ago", "120", "Never", "(50%)", "Recent Activity (7d)", "No trending claims yet", "Outrage Daily", "70%"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinter_Claim(t *testing.T) {
	p, out := newTestPrinter()
	err := p.Claim(view.NewClaimDetail(&model.ClaimDetail{
		Claim: model.Claim{ID: "c1", ClaimText: "Water is wet", Status: "pending"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Not yet investigated") {
		t.Errorf("unexpected output %q", out.String())
	}
}
