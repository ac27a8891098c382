package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ppiankov/factdash/internal/web"
	"github.com/ppiankov/factdash/internal/worker"
)

var (
	exportConcurrency int
	exportOutputDir   string
	exportTimeout     time.Duration
)

// defaultExportRoutes is the snapshot set used when no routes file is given
var defaultExportRoutes = []string{
	"/",
	"/articles",
	"/investigations",
	"/dashboard?time_range=24h",
	"/dashboard?time_range=7d",
	"/dashboard?time_range=30d",
	"/about",
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [routes-file]",
	Short: "Export dashboard pages as static HTML",
	Long: `Export renders dashboard routes concurrently and writes each page to a file:
- Read routes from an optional file (one per line, # for comments)
- Render pages in parallel with a configurable worker count
- Share one query cache, so overlapping pages hit the backend once

Without a routes file the home, article list, investigation list, the three
dashboard ranges and the about page are exported.

Example:
  factdash export
  factdash export routes.txt --output-dir ./snapshot
  factdash export --concurrency 8 --timeout 5m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 0, "number of concurrent workers (default from concurrency.workers)")
	exportCmd.Flags().StringVar(&exportOutputDir, "output-dir", "./factdash-export", "output directory for pages")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 5*time.Minute, "total timeout for the export")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	workers := exportConcurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	if !a.cfg.Output.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := web.New(web.Options{
		Queries:  a.queries,
		Health:   a.api,
		Config:   a.cfg.Server,
		PageSize: a.cfg.Output.PageSize,
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithTimeout(sigCtx, exportTimeout)
	defer cancel()

	source := "built-in routes"
	if len(args) == 1 {
		source = args[0]
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  factdash Export\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Routes:       %s\n", source)
	fmt.Fprintf(os.Stderr, "  Backend:      %s\n", a.api.BaseURL())
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", exportOutputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", exportTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewExportProcessor(srv, workers, exportOutputDir)

	var results []*worker.ExportResult
	if len(args) == 1 {
		results, err = processor.ExportFile(ctx, args[0])
	} else {
		results, err = processor.ExportRoutes(ctx, defaultExportRoutes)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Route, result.Error)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d bytes)\n", result.Route, result.Path, result.Bytes)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Export Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d pages\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", exportOutputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d pages failed to export", failureCount, len(results))
	}
	return nil
}
