package cli

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factdash/internal/web"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard pages",
	Long: `Serve runs the dashboard web server:
- /investigations with verdict and confidence filters, pagination and detail overlay
- /dashboard analytics with a 24h / 7d / 30d time range toggle
- /articles and /claims detail pages
- /healthz, /readyz and /metrics for operators

Example:
  factdash serve
  factdash serve --addr :8080 --api-url http://backend:8000/api/v1
  factdash serve --warm=false`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().Bool("warm", true, "keep dashboard stats and the first investigations page refreshing on cache.refetch_interval, even without visitors")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.warm", serveCmd.Flags().Lookup("warm"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Output.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := web.New(web.Options{
		Queries:  a.queries,
		Health:   a.api,
		Metrics:  a.metrics.Handler(),
		Config:   a.cfg.Server,
		PageSize: a.cfg.Output.PageSize,
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  factdash dashboard\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Listening:  %s\n", a.cfg.Server.Addr)
	fmt.Fprintf(os.Stderr, "  Backend:    %s\n", a.api.BaseURL())
	fmt.Fprintf(os.Stderr, "  Live views: refreshed every %v (warm: %v)\n", a.cfg.Cache.RefetchInterval, a.cfg.Server.Warm)
	fmt.Fprintf(os.Stderr, "\n")

	return srv.ListenAndServe(ctx)
}
