package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ppiankov/factdash/internal/api"
	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/query"
	"github.com/ppiankov/factdash/internal/view"
)

// Inline error copy
const (
	msgInvestigationsError = "Error loading investigations. Please try again."
	msgInvestigationError  = "Error loading investigation details. Please try again."
	msgArticlesError       = "Error loading articles. Please try again."
	msgArticleError        = "Error loading article. Please try again."
	msgClaimError          = "Error loading claim. Please try again."
	msgDashboardError      = "Error loading dashboard. Please try again."
)

const (
	investigationsPath = "/investigations"
	articlesPath       = "/articles"
	dashboardPath      = "/dashboard"
)

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageHome, view.Page{Nav: "home"})
}

func (s *Server) about(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageAbout, view.Page{
		Title: "About",
		Nav:   "about",
		Data:  view.VerdictOptions(),
	})
}

func (s *Server) notFound(c *gin.Context) {
	s.renderNotFound(c, "")
}

func (s *Server) renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, view.PageNotFound, view.Page{
		Title: "Not Found",
		Data:  view.NotFoundPage{Message: message},
	})
}

func (s *Server) investigations(c *gin.Context) {
	ctx := c.Request.Context()
	state := ParseListState(c.Request.URL.Query(), s.pageSize)

	res := s.queries.Investigations(ctx, state.InvestigationsQuery())
	page := view.InvestigationsPage{
		Filters:   state.FilterForm(investigationsPath),
		Loading:   res.IsLoading(),
		CloseHref: state.URL(investigationsPath),
	}
	status := http.StatusOK

	switch {
	case res.HasData:
		for _, inv := range res.Data.Items {
			card := view.NewInvestigationCard(inv)
			card.Href = state.SelectURL(investigationsPath, inv.ID)
			page.Cards = append(page.Cards, card)
		}
		page.Total = res.Data.Total
		page.Pagination = state.Pagination(investigationsPath, res.Data.Total)
	case res.Err != nil:
		s.logger.Warn("investigations unavailable", "error", res.Err)
		page.Error = msgInvestigationsError
		status = http.StatusBadGateway
	}

	if selected := c.Query("selected"); selected != "" {
		detail := s.queries.Investigation(ctx, validID(selected))
		switch {
		case detail.HasData:
			d := view.NewInvestigationDetail(detail.Data, s.now())
			page.Selected = &d
		case detail.Status == query.StatusIdle || api.IsNotFound(detail.Err):
			page.SelectedError = "Investigation not found"
		case detail.Err != nil:
			s.logger.Warn("investigation unavailable", "id", selected, "error", detail.Err)
			page.SelectedError = msgInvestigationError
		}
	}

	p := view.Page{Title: "Investigations", Nav: "investigations", Data: page}
	if page.ModalOpen() {
		p.BodyClass = "modal-open"
	} else {
		p.ReloadSeconds = s.reloadSeconds()
	}
	c.HTML(status, view.PageInvestigations, p)
}

func (s *Server) articles(c *gin.Context) {
	state := ParseListState(c.Request.URL.Query(), s.pageSize)

	res := s.queries.Articles(c.Request.Context(), state.ArticlesQuery())
	page := view.ArticlesPage{Loading: res.IsLoading()}
	status := http.StatusOK

	switch {
	case res.HasData:
		for _, a := range res.Data.Items {
			page.Cards = append(page.Cards, view.NewArticleCard(a))
		}
		page.Total = res.Data.Total
		page.Pagination = state.Pagination(articlesPath, res.Data.Total)
	case res.Err != nil:
		s.logger.Warn("articles unavailable", "error", res.Err)
		page.Error = msgArticlesError
		status = http.StatusBadGateway
	}

	c.HTML(status, view.PageArticles, view.Page{Title: "Articles", Nav: "articles", Data: page})
}

func (s *Server) article(c *gin.Context) {
	res := s.queries.Article(c.Request.Context(), validID(c.Param("articleId")))
	if notFound(res) {
		s.renderNotFound(c, "Article not found")
		return
	}
	if !res.HasData {
		s.logger.Warn("article unavailable", "id", c.Param("articleId"), "error", res.Err)
		c.HTML(http.StatusBadGateway, view.PageArticle, view.Page{
			Title: "Article",
			Nav:   "articles",
			Data:  view.ArticlePage{Error: msgArticleError},
		})
		return
	}

	d := view.NewArticleDetail(res.Data, s.now())
	c.HTML(http.StatusOK, view.PageArticle, view.Page{
		Title: d.Title,
		Nav:   "articles",
		Data:  view.ArticlePage{Article: &d},
	})
}

func (s *Server) claim(c *gin.Context) {
	res := s.queries.Claim(c.Request.Context(), validID(c.Param("claimId")))
	if notFound(res) {
		s.renderNotFound(c, "Claim not found")
		return
	}
	if !res.HasData {
		s.logger.Warn("claim unavailable", "id", c.Param("claimId"), "error", res.Err)
		c.HTML(http.StatusBadGateway, view.PageClaim, view.Page{
			Title: "Claim",
			Data:  view.ClaimPage{Error: msgClaimError},
		})
		return
	}

	d := view.NewClaimDetail(res.Data)
	c.HTML(http.StatusOK, view.PageClaim, view.Page{
		Title: "Claim",
		Data:  view.ClaimPage{Claim: &d},
	})
}

func (s *Server) dashboard(c *gin.Context) {
	tr, err := model.ParseTimeRange(c.Query("time_range"))
	if err != nil {
		tr = model.TimeRange24h
	}

	res := s.queries.DashboardStats(c.Request.Context(), tr)
	page := view.DashboardPage{
		Ranges:  rangeOptions(tr),
		Loading: res.IsLoading(),
	}
	status := http.StatusOK

	switch {
	case res.HasData:
		d := view.NewDashboard(res.Data, s.now())
		page.Dashboard = &d
		page.Updated = view.RelativeTime(res.UpdatedAt, s.now())
	case res.Err != nil:
		s.logger.Warn("dashboard stats unavailable", "time_range", tr, "error", res.Err)
		page.Error = msgDashboardError
		status = http.StatusBadGateway
	}

	c.HTML(status, view.PageDashboard, view.Page{
		Title:         "Dashboard",
		Nav:           "dashboard",
		ReloadSeconds: s.reloadSeconds(),
		Data:          page,
	})
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readyz(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	h, err := s.health.Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": h.Status, "environment": h.Environment})
}

func (s *Server) reloadSeconds() int {
	return int(s.cfg.ReloadInterval / time.Second)
}

func rangeOptions(active model.TimeRange) []view.RangeOption {
	opts := make([]view.RangeOption, 0, len(model.TimeRanges))
	for _, tr := range model.TimeRanges {
		opts = append(opts, view.RangeOption{
			Label:  tr.Label(),
			Href:   dashboardPath + "?time_range=" + string(tr),
			Active: tr == active,
		})
	}
	return opts
}

// validID returns the canonical form of a UUID route parameter, or "" so the
// query stays disabled
func validID(raw string) string {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

func notFound[T any](res query.Result[T]) bool {
	return res.Status == query.StatusIdle || (!res.HasData && api.IsNotFound(res.Err))
}
