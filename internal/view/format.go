package view

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const dateLayout = "Jan 2, 2006"

var plainText = bluemonday.StrictPolicy()

// Percent formats a 0-1 score as a whole percentage
func Percent(x float64) int {
	return int(math.Round(x * 100))
}

// Truncate shortens s to at most n characters, appending "..." when cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// BarWidth is value as a percentage of max, clamped to 0-100
func BarWidth(value, max float64) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	w := int(math.Round(value / max * 100))
	if w > 100 {
		return 100
	}
	return w
}

// PlainText strips any markup from backend text and collapses whitespace
func PlainText(s string) string {
	cleaned := html.UnescapeString(plainText.Sanitize(s))
	return strings.Join(strings.Fields(cleaned), " ")
}

// Humanize turns identifiers such as "loaded_language" into "loaded language"
func Humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// FormatDate renders a calendar date, or "" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// RelativeTime describes t relative to now, e.g. "5 minutes ago" or "in 2 days"
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	distance := distanceWords(d)
	if future {
		return "in " + distance
	}
	return distance + " ago"
}

func distanceWords(d time.Duration) string {
	seconds := d.Seconds()
	minutes := int(math.Round(seconds / 60))

	switch {
	case seconds < 30:
		return "less than a minute"
	case minutes < 2:
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < 1440:
		return fmt.Sprintf("about %d hours", int(math.Round(float64(minutes)/60)))
	case minutes < 2520:
		return "1 day"
	case minutes < 43200:
		return fmt.Sprintf("%d days", int(math.Round(float64(minutes)/1440)))
	case minutes < 86400:
		return "about 1 month"
	}

	months := int(math.Round(float64(minutes) / 43200))
	if months < 12 {
		return fmt.Sprintf("%d months", months)
	}

	years := months / 12
	remainder := months % 12
	switch {
	case remainder < 3:
		return fmt.Sprintf("about %d %s", years, plural(years, "year"))
	case remainder < 9:
		return fmt.Sprintf("over %d %s", years, plural(years, "year"))
	default:
		return fmt.Sprintf("almost %d years", years+1)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// ConfidenceClass buckets a confidence score: high >= 0.8, medium >= 0.6
func ConfidenceClass(v float64) string {
	switch {
	case v >= 0.8:
		return "high"
	case v >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

// QualityClass buckets a quality average; inverse metrics are better when low
func QualityClass(v float64, inverse bool) string {
	if inverse {
		switch {
		case v < 0.3:
			return "good"
		case v < 0.6:
			return "fair"
		default:
			return "poor"
		}
	}
	switch {
	case v >= 0.7:
		return "good"
	case v >= 0.4:
		return "fair"
	default:
		return "poor"
	}
}

// SourceRiskClass buckets a source's propaganda score
func SourceRiskClass(score float64) string {
	switch {
	case score >= 0.6:
		return "high"
	case score >= 0.3:
		return "medium"
	default:
		return "low"
	}
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func joinLines(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Paragraphs splits text on blank lines
func Paragraphs(s string) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p := PlainText(block); p != "" {
			out = append(out, p)
		}
	}
	return out
}
