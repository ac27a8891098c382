package worker

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PageRenderer renders one dashboard route to HTML
type PageRenderer interface {
	RenderPage(ctx context.Context, route string, buf *bytes.Buffer) error
}

// ExportJob renders a route into a file
type ExportJob struct {
	Route    string
	Path     string
	Renderer PageRenderer
}

// Execute renders the page and writes it to disk
func (j *ExportJob) Execute(ctx context.Context) Result {
	var buf bytes.Buffer
	if err := j.Renderer.RenderPage(ctx, j.Route, &buf); err != nil {
		return &ExportResult{Route: j.Route, Path: j.Path, Error: err}
	}

	if err := os.WriteFile(j.Path, buf.Bytes(), 0644); err != nil {
		return &ExportResult{Route: j.Route, Path: j.Path, Error: fmt.Errorf("write %s: %w", j.Path, err)}
	}

	return &ExportResult{Route: j.Route, Path: j.Path, Bytes: buf.Len()}
}

// ExportResult is the outcome of an ExportJob
type ExportResult struct {
	Route string
	Path  string
	Bytes int
	Error error
}

// Err returns the export error, if any
func (r *ExportResult) Err() error {
	return r.Error
}

// ExportProcessor renders many routes concurrently into an output directory
type ExportProcessor struct {
	renderer    PageRenderer
	concurrency int
	outputDir   string
}

// NewExportProcessor creates a processor writing into outputDir
func NewExportProcessor(renderer PageRenderer, concurrency int, outputDir string) *ExportProcessor {
	return &ExportProcessor{
		renderer:    renderer,
		concurrency: concurrency,
		outputDir:   outputDir,
	}
}

// ExportRoutes renders every route and returns results sorted by route
func (e *ExportProcessor) ExportRoutes(ctx context.Context, routes []string) ([]*ExportResult, error) {
	if len(routes) == 0 {
		return []*ExportResult{}, nil
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	jobs := make([]Job, len(routes))
	for i, route := range routes {
		jobs[i] = &ExportJob{
			Route:    route,
			Path:     filepath.Join(e.outputDir, RouteFilename(route)),
			Renderer: e.renderer,
		}
	}

	results := NewPool(ctx, e.concurrency).Run(jobs)

	exported := make([]*ExportResult, len(results))
	for i, result := range results {
		exported[i] = result.(*ExportResult)
	}
	sort.Slice(exported, func(i, j int) bool { return exported[i].Route < exported[j].Route })

	return exported, nil
}

// ExportFile reads routes from a file and exports them
func (e *ExportProcessor) ExportFile(ctx context.Context, filePath string) ([]*ExportResult, error) {
	routes, err := ReadRoutesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}

	return e.ExportRoutes(ctx, routes)
}

// ReadRoutesFromFile reads dashboard routes from a file (one per line)
func ReadRoutesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var routes []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			line = "/" + line
		}

		if !seen[line] {
			seen[line] = true
			routes = append(routes, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return routes, nil
}

// RouteFilename maps a route such as "/dashboard?time_range=7d" to "dashboard-time_range-7d.html"
func RouteFilename(route string) string {
	name := strings.Trim(route, "/")
	if name == "" {
		return "index.html"
	}

	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-.")

	if len(name) > 100 {
		name = name[:100]
	}

	return name + ".html"
}
