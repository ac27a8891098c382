package web

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/ppiankov/factdash/internal/api"
	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/view"
)

// DefaultPageSize is the number of list items per page
const DefaultPageSize = 20

// ListState is the pagination and filter state of a list page, carried in
// the URL query (page, verdict, min_confidence)
type ListState struct {
	Page          int // Zero-based
	PageSize      int
	Verdict       model.Verdict // Empty means all verdicts
	MinConfidence float64       // 0-1
}

// ParseListState reads list state from query values. Unknown verdicts and
// malformed numbers are ignored.
func ParseListState(v url.Values, pageSize int) ListState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	s := ListState{PageSize: pageSize}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		s.Page = p
	}
	if verdict, ok := model.ParseVerdict(v.Get("verdict")); ok {
		s.Verdict = verdict
	}
	s.MinConfidence = ParseConfidence(v.Get("min_confidence"))
	return s
}

// ParseConfidence accepts a 0-1 fraction or a 0-100 percentage
func ParseConfidence(raw string) float64 {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > 1 {
		f /= 100
	}
	return math.Min(f, 1)
}

// TotalPages is ceil(total/pageSize)
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Offset is the index of the first item on the current page
func (s ListState) Offset() int {
	return s.Page * s.PageSize
}

func (s ListState) HasPrev() bool {
	return s.Page > 0
}

func (s ListState) HasNext(total int) bool {
	return s.Page < TotalPages(total, s.PageSize)-1
}

// HasFilters reports whether a verdict or confidence filter is set
func (s ListState) HasFilters() bool {
	return s.Verdict != "" || s.MinConfidence > 0
}

func (s ListState) WithPage(page int) ListState {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// WithVerdict changes the verdict filter and returns to the first page
func (s ListState) WithVerdict(v model.Verdict) ListState {
	s.Verdict = v
	s.Page = 0
	return s
}

// WithMinConfidence changes the confidence filter and returns to the first page
func (s ListState) WithMinConfidence(c float64) ListState {
	s.MinConfidence = c
	s.Page = 0
	return s
}

// ClearFilters drops both filters and returns to the first page
func (s ListState) ClearFilters() ListState {
	s.Verdict = ""
	s.MinConfidence = 0
	s.Page = 0
	return s
}

// Values encodes the state; defaults are omitted
func (s ListState) Values() url.Values {
	v := url.Values{}
	if s.Page > 0 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if s.Verdict != "" {
		v.Set("verdict", string(s.Verdict))
	}
	if s.MinConfidence > 0 {
		v.Set("min_confidence", strconv.FormatFloat(s.MinConfidence, 'f', -1, 64))
	}
	return v
}

// URL is path with the state as its query string
func (s ListState) URL(path string) string {
	if q := s.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// SelectURL is the current list with the detail overlay open on id
func (s ListState) SelectURL(path, id string) string {
	v := s.Values()
	v.Set("selected", id)
	return path + "?" + v.Encode()
}

// Pagination builds the previous/next control for a list of total items
func (s ListState) Pagination(path string, total int) view.Pagination {
	pages := TotalPages(total, s.PageSize)
	p := view.Pagination{
		Label:      fmt.Sprintf("Page %d of %d", s.Page+1, max(pages, 1)),
		TotalPages: pages,
		HasPrev:    s.HasPrev(),
		HasNext:    s.HasNext(total),
	}
	if p.HasPrev {
		p.PrevHref = s.WithPage(s.Page - 1).URL(path)
	}
	if p.HasNext {
		p.NextHref = s.WithPage(s.Page + 1).URL(path)
	}
	return p
}

// FilterForm builds the investigations filter panel
func (s ListState) FilterForm(path string) view.FilterForm {
	return view.FilterForm{
		Verdict:       string(s.Verdict),
		MinConfidence: view.Percent(s.MinConfidence),
		Options:       view.VerdictOptions(),
		Active:        s.HasFilters(),
		ClearHref:     s.ClearFilters().URL(path),
	}
}

func (s ListState) InvestigationsQuery() api.InvestigationsQuery {
	return api.InvestigationsQuery{
		Limit:         s.PageSize,
		Offset:        s.Offset(),
		Verdict:       s.Verdict,
		MinConfidence: s.MinConfidence,
	}
}

func (s ListState) ArticlesQuery() api.ArticlesQuery {
	return api.ArticlesQuery{
		Limit:  s.PageSize,
		Offset: s.Offset(),
	}
}
