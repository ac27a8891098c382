package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factdash/internal/model"
	"github.com/ppiankov/factdash/internal/query"
	"github.com/ppiankov/factdash/internal/view"
)

var dashboardRange string

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the analytics dashboard",
	Long: `Show overview totals, verdict distribution, recent activity, quality
metrics, trending claims, propaganda techniques and problematic sources.

Example:
  factdash dashboard
  factdash dashboard --range 7d
  factdash dashboard --range 30d --watch`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVarP(&dashboardRange, "range", "r", string(model.TimeRange24h), "time range: 24h, 7d, 30d")
	dashboardCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-render whenever the statistics refresh (every minute)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	tr, err := model.ParseTimeRange(dashboardRange)
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

	show := func(res query.Result[*model.DashboardStats]) error {
		stats, err := resultData(res, "dashboard statistics")
		if err != nil {
			return err
		}
		now := time.Now()
		return a.printer.Dashboard(view.NewDashboard(stats, now), view.RelativeTime(res.UpdatedAt, now))
	}

	if !watchMode {
		return show(a.queries.DashboardStats(ctx, tr))
	}

	obs := a.queries.WatchDashboardStats(tr)
	defer obs.Close()
	return watch(ctx, a, obs, show)
}
