// Package queries binds each backend accessor to a cache key and a freshness policy.
package queries

import (
	"context"
	"time"

	"github.com/ppiankov/factdash/internal/api"
	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/query"
)

// Backend is the set of accessors the queries are built on
type Backend interface {
	ListArticles(ctx context.Context, q api.ArticlesQuery) (model.Page[model.Article], error)
	GetArticle(ctx context.Context, id string) (*model.ArticleDetail, error)
	ListClaims(ctx context.Context, q api.ClaimsQuery) (model.Page[model.Claim], error)
	GetClaim(ctx context.Context, id string) (*model.ClaimDetail, error)
	ListInvestigations(ctx context.Context, q api.InvestigationsQuery) (model.Page[model.Investigation], error)
	GetInvestigation(ctx context.Context, id string) (*model.Investigation, error)
	GetDashboardStats(ctx context.Context, q api.StatsQuery) (*model.DashboardStats, error)
}

var _ Backend = (*api.Client)(nil)

// Freshness policies
var (
	// DefaultPolicy uses the client defaults (5 minutes fresh)
	DefaultPolicy = query.Options{}

	// LivePolicy keeps near-real-time views current
	LivePolicy = query.Options{
		StaleTime:       30 * time.Second,
		RefetchInterval: 60 * time.Second,
	}
)

// Queries exposes one typed query per backend resource
type Queries struct {
	client  *query.Client
	backend Backend
	live    query.Options
}

// Option configures Queries
type Option func(*Queries)

// WithLivePolicy replaces the policy of the investigation list and dashboard stats
func WithLivePolicy(p query.Options) Option {
	return func(q *Queries) {
		q.live = p
	}
}

// LivePolicyFromConfig maps the cache config section onto LivePolicy; zero fields keep its values
func LivePolicyFromConfig(cfg model.CacheConfig) query.Options {
	p := LivePolicy
	if cfg.LiveStaleTime != 0 {
		p.StaleTime = cfg.LiveStaleTime
	}
	if cfg.RefetchInterval > 0 {
		p.RefetchInterval = cfg.RefetchInterval
	}
	return p
}

// New creates the resource queries on top of a query client
func New(client *query.Client, backend Backend, opts ...Option) *Queries {
	q := &Queries{client: client, backend: backend, live: LivePolicy}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Client returns the underlying query client
func (q *Queries) Client() *query.Client {
	return q.client
}

// ArticlesSpec is the paginated article list
func (q *Queries) ArticlesSpec(params api.ArticlesQuery) query.Spec[model.Page[model.Article]] {
	return query.Spec[model.Page[model.Article]]{
		Key:      query.Key(api.ResourceArticles, params.Limit, params.Offset, params.SourceID, params.Status),
		Resource: api.ResourceArticles,
		Options:  DefaultPolicy,
		Fetch: func(ctx context.Context) (model.Page[model.Article], error) {
			return q.backend.ListArticles(ctx, params)
		},
	}
}

// ArticleSpec is a single article; disabled without an id
func (q *Queries) ArticleSpec(id string) query.Spec[*model.ArticleDetail] {
	return query.Spec[*model.ArticleDetail]{
		Key:      query.Key(api.ResourceArticle, id),
		Resource: api.ResourceArticle,
		Disabled: id == "",
		Options:  DefaultPolicy,
		Fetch: func(ctx context.Context) (*model.ArticleDetail, error) {
			return q.backend.GetArticle(ctx, id)
		},
	}
}

// ClaimsSpec is the paginated claim list
func (q *Queries) ClaimsSpec(params api.ClaimsQuery) query.Spec[model.Page[model.Claim]] {
	return query.Spec[model.Page[model.Claim]]{
		Key:      query.Key(api.ResourceClaims, params.Limit, params.Offset, params.ArticleID, params.Status),
		Resource: api.ResourceClaims,
		Options:  DefaultPolicy,
		Fetch: func(ctx context.Context) (model.Page[model.Claim], error) {
			return q.backend.ListClaims(ctx, params)
		},
	}
}

// ClaimSpec is a single claim; disabled without an id
func (q *Queries) ClaimSpec(id string) query.Spec[*model.ClaimDetail] {
	return query.Spec[*model.ClaimDetail]{
		Key:      query.Key(api.ResourceClaim, id),
		Resource: api.ResourceClaim,
		Disabled: id == "",
		Options:  DefaultPolicy,
		Fetch: func(ctx context.Context) (*model.ClaimDetail, error) {
			return q.backend.GetClaim(ctx, id)
		},
	}
}

// InvestigationsSpec is the filtered investigation list
func (q *Queries) InvestigationsSpec(params api.InvestigationsQuery) query.Spec[model.Page[model.Investigation]] {
	return query.Spec[model.Page[model.Investigation]]{
		Key:      query.Key(api.ResourceInvestigations, params.Limit, params.Offset, string(params.Verdict), params.MinConfidence),
		Resource: api.ResourceInvestigations,
		Options:  q.live,
		Fetch: func(ctx context.Context) (model.Page[model.Investigation], error) {
			return q.backend.ListInvestigations(ctx, params)
		},
	}
}

// InvestigationSpec is a single investigation with claim and evidence; disabled without an id
func (q *Queries) InvestigationSpec(id string) query.Spec[*model.Investigation] {
	return query.Spec[*model.Investigation]{
		Key:      query.Key(api.ResourceInvestigation, id),
		Resource: api.ResourceInvestigation,
		Disabled: id == "",
		Options:  DefaultPolicy,
		Fetch: func(ctx context.Context) (*model.Investigation, error) {
			return q.backend.GetInvestigation(ctx, id)
		},
	}
}

// DashboardStatsSpec is the dashboard statistics for one time range
func (q *Queries) DashboardStatsSpec(tr model.TimeRange) query.Spec[*model.DashboardStats] {
	if tr == "" {
		tr = model.TimeRange24h
	}
	return query.Spec[*model.DashboardStats]{
		Key:      query.Key(api.ResourceStats, string(tr)),
		Resource: api.ResourceStats,
		Options:  q.live,
		Fetch: func(ctx context.Context) (*model.DashboardStats, error) {
			return q.backend.GetDashboardStats(ctx, api.StatsQuery{TimeRange: tr})
		},
	}
}

// Articles reads the article list through the cache
func (q *Queries) Articles(ctx context.Context, params api.ArticlesQuery) query.Result[model.Page[model.Article]] {
	return query.Fetch(ctx, q.client, q.ArticlesSpec(params))
}

// Article reads one article through the cache
func (q *Queries) Article(ctx context.Context, id string) query.Result[*model.ArticleDetail] {
	return query.Fetch(ctx, q.client, q.ArticleSpec(id))
}

// Claims reads the claim list through the cache
func (q *Queries) Claims(ctx context.Context, params api.ClaimsQuery) query.Result[model.Page[model.Claim]] {
	return query.Fetch(ctx, q.client, q.ClaimsSpec(params))
}

// Claim reads one claim through the cache
func (q *Queries) Claim(ctx context.Context, id string) query.Result[*model.ClaimDetail] {
	return query.Fetch(ctx, q.client, q.ClaimSpec(id))
}

// Investigations reads the investigation list through the cache
func (q *Queries) Investigations(ctx context.Context, params api.InvestigationsQuery) query.Result[model.Page[model.Investigation]] {
	return query.Fetch(ctx, q.client, q.InvestigationsSpec(params))
}

// Investigation reads one investigation through the cache
func (q *Queries) Investigation(ctx context.Context, id string) query.Result[*model.Investigation] {
	return query.Fetch(ctx, q.client, q.InvestigationSpec(id))
}

// DashboardStats reads the dashboard statistics through the cache
func (q *Queries) DashboardStats(ctx context.Context, tr model.TimeRange) query.Result[*model.DashboardStats] {
	return query.Fetch(ctx, q.client, q.DashboardStatsSpec(tr))
}

// WatchInvestigations follows the investigation list, re-fetching every minute
func (q *Queries) WatchInvestigations(params api.InvestigationsQuery) *query.Observer[model.Page[model.Investigation]] {
	return query.Watch(q.client, q.InvestigationsSpec(params))
}

// WatchDashboardStats follows the dashboard statistics, re-fetching every minute
func (q *Queries) WatchDashboardStats(tr model.TimeRange) *query.Observer[*model.DashboardStats] {
	return query.Watch(q.client, q.DashboardStatsSpec(tr))
}
