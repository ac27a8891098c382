package view

// Page is the data every template receives
type Page struct {
	Title         string
	Nav           string // Active navigation entry
	BodyClass     string
	ReloadSeconds int // Timed reload of live pages; 0 disables
	Data          any
}

// Pagination is the previous/next control under a list
type Pagination struct {
	Label      string // "Page X of N"
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevHref   string
	NextHref   string
}

// Show reports whether there is more than one page
func (p Pagination) Show() bool {
	return p.TotalPages > 1
}

// FilterForm is the investigations filter panel
type FilterForm struct {
	Verdict       string
	MinConfidence int // Percent
	Options       []VerdictBadge
	Active        bool
	ClearHref     string
}

// InvestigationsPage is the filtered, paginated investigation grid
type InvestigationsPage struct {
	Filters    FilterForm
	Cards      []InvestigationCard
	Total      int
	Pagination Pagination
	Error      string
	Loading    bool

	Selected      *InvestigationDetail
	SelectedError string
	CloseHref     string
}

// EmptyTitle distinguishes a filtered empty result from no data at all
func (p InvestigationsPage) EmptyTitle() string {
	if p.Filters.Active {
		return "No investigations match your filters"
	}
	return "No investigations completed yet"
}

// EmptyHint is the secondary empty-state copy
func (p InvestigationsPage) EmptyHint() string {
	if p.Filters.Active {
		return "Try adjusting your filters to see more results"
	}
	return "Investigations will appear here as claims are fact-checked"
}

// ModalOpen reports whether the detail overlay is shown
func (p InvestigationsPage) ModalOpen() bool {
	return p.Selected != nil || p.SelectedError != ""
}

// ArticlesPage is the paginated article list
type ArticlesPage struct {
	Cards      []ArticleCard
	Total      int
	Pagination Pagination
	Error      string
	Loading    bool
}

// ArticlePage is a single article
type ArticlePage struct {
	Article *ArticleDetail
	Error   string
}

// ClaimPage is a single claim
type ClaimPage struct {
	Claim *ClaimDetail
	Error string
}

// RangeOption is one button of the dashboard time range toggle
type RangeOption struct {
	Label  string
	Href   string
	Active bool
}

// DashboardPage is the analytics dashboard
type DashboardPage struct {
	Dashboard *Dashboard
	Ranges    []RangeOption
	Updated   string
	Error     string
	Loading   bool
}

// NotFoundPage is shown for unknown routes and missing entities
type NotFoundPage struct {
	Message string
}
