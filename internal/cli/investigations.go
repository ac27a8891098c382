package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/query"
	"github.com/ppiankov/factdash/internal/view"
	"github.com/ppiankov/factdash/internal/web"
)

var (
	invVerdict       string
	invMinConfidence string
	listPage         int
	listLimit        int
	watchMode        bool
)

// investigationsCmd represents the investigations command
var investigationsCmd = &cobra.Command{
	Use:   "investigations",
	Short: "List fact-check investigations",
	Long: `List investigations with their verdict, confidence, evidence counts and
propaganda alerts.

Example:
  factdash investigations
  factdash investigations --verdict false --min-confidence 0.7
  factdash investigations --page 2 --limit 50
  factdash investigations --watch`,
	Args: cobra.NoArgs,
	RunE: runInvestigations,
}

// investigationCmd represents the investigation command
var investigationCmd = &cobra.Command{
	Use:   "investigation <id>",
	Short: "Show one investigation with its evidence",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvestigation,
}

func init() {
	rootCmd.AddCommand(investigationsCmd)
	rootCmd.AddCommand(investigationCmd)

	investigationsCmd.Flags().StringVar(&invVerdict, "verdict", "", "filter by verdict ("+verdictNames()+")")
	investigationsCmd.Flags().StringVar(&invMinConfidence, "min-confidence", "", "minimum confidence, 0-1 or percent")
	investigationsCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	investigationsCmd.Flags().IntVar(&listLimit, "limit", 0, "items per page (default from output.page_size)")
	investigationsCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-render whenever the list refreshes (every minute)")
}

// listState builds the shared list state from the command flags
func listState(pageSize int, verdict, minConfidence string) (web.ListState, error) {
	if listLimit > 0 {
		pageSize = listLimit
	}
	state := web.ListState{PageSize: pageSize}
	if state.PageSize <= 0 {
		state.PageSize = web.DefaultPageSize
	}

	if verdict != "" {
		v, ok := model.ParseVerdict(strings.ToLower(verdict))
		if !ok {
			return state, fmt.Errorf("invalid verdict %q: must be one of %s", verdict, verdictNames())
		}
		state = state.WithVerdict(v)
	}
	if minConfidence != "" {
		state = state.WithMinConfidence(web.ParseConfidence(minConfidence))
	}
	return state.WithPage(listPage - 1), nil
}

func verdictNames() string {
	names := make([]string, len(model.Verdicts))
	for i, v := range model.Verdicts {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func runInvestigations(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := listState(a.cfg.Output.PageSize, invVerdict, invMinConfidence)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	show := func(res query.Result[model.Page[model.Investigation]]) error {
		page, err := resultData(res, "investigations")
		if err != nil {
			return err
		}
		cards := make([]view.InvestigationCard, 0, len(page.Items))
		for _, inv := range page.Items {
			cards = append(cards, view.NewInvestigationCard(inv))
		}
		return a.printer.Investigations(cards, page.Total, state.Pagination("/investigations", page.Total))
	}

	if !watchMode {
		return show(a.queries.Investigations(ctx, state.InvestigationsQuery()))
	}

	obs := a.queries.WatchInvestigations(state.InvestigationsQuery())
	defer obs.Close()
	return watch(ctx, a, obs, show)
}

func runInvestigation(cmd *cobra.Command, args []string) error {
	id, err := parseID("investigation", args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	inv, err := resultData(a.queries.Investigation(ctx, id), "investigation")
	if err != nil {
		return err
	}
	return a.printer.Investigation(view.NewInvestigationDetail(inv, time.Now()))
}
