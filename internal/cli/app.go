package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/factdash/internal/api"
	"github.com/ppiankov/factdash/internal/metrics"
	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/output"
	"github.com/ppiankov/factdash/internal/queries"
	"github.com/ppiankov/factdash/internal/query"
	"github.com/ppiankov/factdash/internal/worker"
)

// app holds the components every command is built from
type app struct {
	cfg     *model.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	api     *api.Client
	client  *query.Client
	queries *queries.Queries
	printer *output.Printer
}

// newApp wires the API client, query cache and printer from the effective config
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	m := metrics.New()

	opts := api.OptionsFromConfig(cfg.API)
	opts.Limiter = worker.NewLimiterFromConfig(cfg.RateLimiting)
	opts.Recorder = m
	apiClient, err := api.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}

	qcfg := query.ConfigFromModel(cfg.Cache)
	qcfg.Logger = logger
	qcfg.Recorder = m
	client := query.NewClient(qcfg)

	mode, _ := parseColor(cfg.Output.Color)

	logger.Debug("api client ready", "base_url", apiClient.BaseURL())

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		api:     apiClient,
		client:  client,
		queries: queries.New(client, apiClient, queries.WithLivePolicy(queries.LivePolicyFromConfig(cfg.Cache))),
		printer: output.NewPrinter(mode),
	}, nil
}

// Close stops background fetches
func (a *app) Close() {
	a.client.Close()
}

func parseColor(s string) (output.ColorMode, error) {
	mode, err := output.ParseColorMode(s)
	if err != nil {
		return mode, fmt.Errorf("output.color: %w", err)
	}
	return mode, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// parseID validates a resource id argument
func parseID(kind, raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s id %q: must be a UUID", kind, raw)
	}
	return id.String(), nil
}

// resultData unwraps a query result for one-shot commands
func resultData[T any](res query.Result[T], what string) (T, error) {
	if res.HasData {
		if res.Err != nil {
			slog.Warn("showing cached data after a failed refresh", "resource", what, "error", res.Err)
		}
		return res.Data, nil
	}

	var zero T
	if res.Err != nil {
		if api.IsNotFound(res.Err) {
			return zero, fmt.Errorf("%s not found", what)
		}
		return zero, fmt.Errorf("load %s: %w", what, res.Err)
	}
	return zero, errors.New(what + ": no data")
}

// watch prints the observed result after every refresh until ctx ends
func watch[T any](ctx context.Context, a *app, obs *query.Observer[T], show func(query.Result[T]) error) error {
	if res := obs.Result(); res.HasData {
		if err := show(res); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-obs.C:
			res := obs.Result()
			if !res.HasData {
				if res.Err != nil {
					a.printer.Warning("refresh failed: %v", res.Err)
				}
				continue
			}
			a.printer.Print("")
			a.printer.Print("%s", a.printer.Dim("Updated "+time.Now().Format(time.TimeOnly)))
			if err := show(res); err != nil {
				a.printer.Warning("%v", err)
			}
		}
	}
}
