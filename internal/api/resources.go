package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/factdash/internal/model"
)

// Resource names, also used as query cache key prefixes and metric labels
const (
	ResourceArticles       = "articles"
	ResourceArticle        = "article"
	ResourceClaims         = "claims"
	ResourceClaim          = "claim"
	ResourceInvestigations = "investigations"
	ResourceInvestigation  = "investigation"
	ResourceStats          = "stats"
	ResourceHealth         = "health"
)

// ListArticles fetches GET /articles
func (c *Client) ListArticles(ctx context.Context, q ArticlesQuery) (model.Page[model.Article], error) {
	return getJSON[model.Page[model.Article]](ctx, c, ResourceArticles, c.resourceURL("articles", q.Values()))
}

// GetArticle fetches GET /articles/{id}
func (c *Client) GetArticle(ctx context.Context, id string) (*model.ArticleDetail, error) {
	if err := requireID(ResourceArticle, id); err != nil {
		return nil, err
	}
	return getJSON[*model.ArticleDetail](ctx, c, ResourceArticle, c.resourceURL("articles/"+url.PathEscape(id), nil))
}

// ListClaims fetches GET /claims
func (c *Client) ListClaims(ctx context.Context, q ClaimsQuery) (model.Page[model.Claim], error) {
	return getJSON[model.Page[model.Claim]](ctx, c, ResourceClaims, c.resourceURL("claims", q.Values()))
}

// GetClaim fetches GET /claims/{id}
func (c *Client) GetClaim(ctx context.Context, id string) (*model.ClaimDetail, error) {
	if err := requireID(ResourceClaim, id); err != nil {
		return nil, err
	}
	return getJSON[*model.ClaimDetail](ctx, c, ResourceClaim, c.resourceURL("claims/"+url.PathEscape(id), nil))
}

// ListInvestigations fetches GET /investigations
func (c *Client) ListInvestigations(ctx context.Context, q InvestigationsQuery) (model.Page[model.Investigation], error) {
	return getJSON[model.Page[model.Investigation]](ctx, c, ResourceInvestigations, c.resourceURL("investigations", q.Values()))
}

// GetInvestigation fetches GET /investigations/{id}, including claim and evidence
func (c *Client) GetInvestigation(ctx context.Context, id string) (*model.Investigation, error) {
	if err := requireID(ResourceInvestigation, id); err != nil {
		return nil, err
	}
	return getJSON[*model.Investigation](ctx, c, ResourceInvestigation, c.resourceURL("investigations/"+url.PathEscape(id), nil))
}

// GetDashboardStats fetches GET /stats/overview
func (c *Client) GetDashboardStats(ctx context.Context, q StatsQuery) (*model.DashboardStats, error) {
	return getJSON[*model.DashboardStats](ctx, c, ResourceStats, c.resourceURL("stats/overview", q.Values()))
}

// HealthStatus is the backend liveness payload
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment,omitempty"`
}

// Health fetches GET /health, which lives at the server root rather than under the API prefix
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	u := *c.baseURL
	u.Path = "/health"
	u.RawQuery = ""
	return getJSON[*HealthStatus](ctx, c, ResourceHealth, u.String())
}

func requireID(resource, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: %w", resource, ErrMissingID)
	}
	return nil
}
