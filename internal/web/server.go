// Package web serves the dashboard pages over HTTP.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/factdash/internal/api"
	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/queries"
	"github.com/ppiankov/factdash/internal/view"
)

const shutdownTimeout = 10 * time.Second

// HealthChecker reports backend availability
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthStatus, error)
}

// Options configures a Server
type Options struct {
	Queries  *queries.Queries
	Health   HealthChecker // Optional; /readyz reports ready without it
	Metrics  http.Handler  // Optional; served at /metrics
	Config   model.ServerConfig
	PageSize int
	Logger   *slog.Logger
	Now      func() time.Time
}

// Server renders the dashboard pages
type Server struct {
	queries  *queries.Queries
	health   HealthChecker
	metrics  http.Handler
	renderer *view.Renderer
	cfg      model.ServerConfig
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
	engine   *gin.Engine
}

// New creates a server and its router
func New(opts Options) (*Server, error) {
	if opts.Queries == nil {
		return nil, errors.New("web: queries are required")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	s := &Server{
		queries:  opts.Queries,
		health:   opts.Health,
		metrics:  opts.Metrics,
		renderer: renderer,
		cfg:      opts.Config,
		pageSize: opts.PageSize,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.engine = s.setupRouter()
	return s, nil
}

// Handler returns the HTTP handler for all routes
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.HTMLRender = htmlRender{renderer: s.renderer}

	r.GET("/", s.home)
	r.GET("/articles", s.articles)
	r.GET("/articles/:articleId", s.article)
	r.GET("/claims/:claimId", s.claim)
	r.GET("/investigations", s.investigations)
	r.GET("/dashboard", s.dashboard)
	r.GET("/about", s.about)

	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}
	r.StaticFS("/static", http.FS(view.StaticFS()))

	r.NoRoute(s.notFound)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// With Config.Warm the live views stay observed, and so re-fetch on their
// interval, for as long as the server runs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Warm {
		s.Warm(ctx)
	}

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Warm keeps the live views refreshed in the background until ctx is done,
// so the first visitor after an idle period does not wait on the backend.
func (s *Server) Warm(ctx context.Context) {
	closers := make([]func(), 0, len(model.TimeRanges)+1)
	for _, tr := range model.TimeRanges {
		closers = append(closers, s.queries.WatchDashboardStats(tr).Close)
	}
	first := ParseListState(nil, s.pageSize)
	closers = append(closers, s.queries.WatchInvestigations(first.InvestigationsQuery()).Close)

	go func() {
		<-ctx.Done()
		for _, closeFn := range closers {
			closeFn()
		}
	}()
}

// RenderPage renders route into buf as a browser would receive it
func (s *Server) RenderPage(ctx context.Context, route string, buf *bytes.Buffer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, route, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("%s: status %d", route, rec.Code)
	}

	_, err = buf.Write(rec.Body.Bytes())
	return err
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
