// Package view turns backend entities into view models and renders them as HTML.
// Everything here is a pure function of its input; nothing touches the network.
package view

import "github.com/ppiankov/factdash/internal/model"

// VerdictBadge is the presentation of one verdict
type VerdictBadge struct {
	Verdict model.Verdict
	Label   string
	Color   string // Hex color for charts and badges
	Class   string // CSS modifier, e.g. "verdict-mostly_false"
}

var verdictBadges = map[model.Verdict]VerdictBadge{
	model.VerdictTrue:         {Verdict: model.VerdictTrue, Label: "True", Color: "#059669", Class: "verdict-true"},
	model.VerdictMostlyTrue:   {Verdict: model.VerdictMostlyTrue, Label: "Mostly True", Color: "#84CC16", Class: "verdict-mostly_true"},
	model.VerdictMixed:        {Verdict: model.VerdictMixed, Label: "Mixed", Color: "#F59E0B", Class: "verdict-mixed"},
	model.VerdictMostlyFalse:  {Verdict: model.VerdictMostlyFalse, Label: "Mostly False", Color: "#F97316", Class: "verdict-mostly_false"},
	model.VerdictFalse:        {Verdict: model.VerdictFalse, Label: "False", Color: "#DC2626", Class: "verdict-false"},
	model.VerdictUnverifiable: {Verdict: model.VerdictUnverifiable, Label: "Unverifiable", Color: "#6B7280", Class: "verdict-unverifiable"},
}

// VerdictStyle looks up the badge for v; unknown verdicts get the unverifiable badge
func VerdictStyle(v model.Verdict) VerdictBadge {
	if badge, ok := verdictBadges[v]; ok {
		return badge
	}
	return verdictBadges[model.VerdictUnverifiable]
}

// VerdictOptions lists every verdict badge in display order
func VerdictOptions() []VerdictBadge {
	out := make([]VerdictBadge, 0, len(model.Verdicts))
	for _, v := range model.Verdicts {
		out = append(out, verdictBadges[v])
	}
	return out
}
