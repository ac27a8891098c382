// Smoke check against a running backend: every read endpoint is requested once
// and the outcome printed. Exits non-zero if any request fails.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factdash/internal/api"
	"github.com/ppiankov/factdash/internal/model"
)

type outcome struct {
	name     string
	detail   string
	err      error
	duration time.Duration
}

type recorder struct {
	mu       sync.Mutex
	outcomes []outcome
}

// check runs fn and records its outcome. The error is returned as well so the
// group reports the first failure; checks never cancel each other.
func (r *recorder) check(ctx context.Context, name string, fn func(ctx context.Context) (string, error)) func() error {
	return func() error {
		start := time.Now()
		detail, err := fn(ctx)
		r.mu.Lock()
		r.outcomes = append(r.outcomes, outcome{name: name, detail: detail, err: err, duration: time.Since(start)})
		r.mu.Unlock()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// maxInFlight bounds concurrent requests against the backend
const maxInFlight = 4

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("FACTDASH_API_URL")
	if baseURL == "" {
		baseURL = model.DefaultConfig().API.BaseURL
	}

	client, err := api.NewClient(api.Options{BaseURL: baseURL, Timeout: 15 * time.Second})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== factdash smoke check: %s ===\n\n", client.BaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec := &recorder{}
	first := api.InvestigationsQuery{Limit: 1}
	var (
		investigationID string
		articleID       string
		claimID         string
	)

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	g.Go(rec.check(ctx, "health", func(ctx context.Context) (string, error) {
		h, err := client.Health(ctx)
		if err != nil {
			return "", err
		}
		return h.Status, nil
	}))
	g.Go(rec.check(ctx, "articles", func(ctx context.Context) (string, error) {
		page, err := client.ListArticles(ctx, api.ArticlesQuery{Limit: 1})
		if err != nil {
			return "", err
		}
		if len(page.Items) > 0 {
			articleID = page.Items[0].ID
		}
		return fmt.Sprintf("%d total", page.Total), nil
	}))
	g.Go(rec.check(ctx, "claims", func(ctx context.Context) (string, error) {
		page, err := client.ListClaims(ctx, api.ClaimsQuery{Limit: 1})
		if err != nil {
			return "", err
		}
		if len(page.Items) > 0 {
			claimID = page.Items[0].ID
		}
		return fmt.Sprintf("%d total", page.Total), nil
	}))
	g.Go(rec.check(ctx, "investigations", func(ctx context.Context) (string, error) {
		page, err := client.ListInvestigations(ctx, first)
		if err != nil {
			return "", err
		}
		if len(page.Items) > 0 {
			investigationID = page.Items[0].ID
		}
		return fmt.Sprintf("%d total", page.Total), nil
	}))
	for _, tr := range model.TimeRanges {
		g.Go(rec.check(ctx, "stats "+string(tr), func(ctx context.Context) (string, error) {
			stats, err := client.GetDashboardStats(ctx, api.StatsQuery{TimeRange: tr})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d investigations", stats.Overview.TotalInvestigations), nil
		}))
	}
	listErr := g.Wait()

	// Detail endpoints need an id from the lists above
	var details errgroup.Group
	details.SetLimit(maxInFlight)
	if articleID != "" {
		details.Go(rec.check(ctx, "article detail", func(ctx context.Context) (string, error) {
			a, err := client.GetArticle(ctx, articleID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d claims", len(a.Claims)), nil
		}))
	}
	if claimID != "" {
		details.Go(rec.check(ctx, "claim detail", func(ctx context.Context) (string, error) {
			c, err := client.GetClaim(ctx, claimID)
			if err != nil {
				return "", err
			}
			return c.Status, nil
		}))
	}
	if investigationID != "" {
		details.Go(rec.check(ctx, "investigation detail", func(ctx context.Context) (string, error) {
			inv, err := client.GetInvestigation(ctx, investigationID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s, %d evidence", inv.Verdict, len(inv.Evidence)), nil
		}))
	}
	detailErr := details.Wait()

	failures := 0
	for _, o := range rec.outcomes {
		if o.err != nil {
			failures++
			fmt.Printf("  ✗ %-22s %v\n", o.name, o.err)
			continue
		}
		fmt.Printf("  ✓ %-22s %-24s %v\n", o.name, o.detail, o.duration.Round(time.Millisecond))
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%d checks, %d failed\n", len(rec.outcomes), failures)
	if err := errors.Join(listErr, detailErr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
