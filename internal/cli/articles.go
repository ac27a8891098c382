package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factdash/internal/view"
)

// articlesCmd represents the articles command
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List ingested articles",
	Long: `List the articles the backend has ingested, newest first.

Example:
  factdash articles
  factdash articles --page 3 --limit 10`,
	Args: cobra.NoArgs,
	RunE: runArticles,
}

// articleCmd represents the article command
var articleCmd = &cobra.Command{
	Use:   "article <id>",
	Short: "Show one article with its extracted claims",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticle,
}

// claimCmd represents the claim command
var claimCmd = &cobra.Command{
	Use:   "claim <id>",
	Short: "Show one claim and its investigation",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaim,
}

func init() {
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(claimCmd)

	articlesCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	articlesCmd.Flags().IntVar(&listLimit, "limit", 0, "items per page (default from output.page_size)")
}

func runArticles(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := listState(a.cfg.Output.PageSize, "", "")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	page, err := resultData(a.queries.Articles(ctx, state.ArticlesQuery()), "articles")
	if err != nil {
		return err
	}

	cards := make([]view.ArticleCard, 0, len(page.Items))
	for _, art := range page.Items {
		cards = append(cards, view.NewArticleCard(art))
	}
	return a.printer.Articles(cards, page.Total, state.Pagination("/articles", page.Total))
}

func runArticle(cmd *cobra.Command, args []string) error {
	id, err := parseID("article", args[0])
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

	art, err := resultData(a.queries.Article(ctx, id), "article")
	if err != nil {
		return err
	}
	return a.printer.Article(view.NewArticleDetail(art, time.Now()))
}

func runClaim(cmd *cobra.Command, args []string) error {
	id, err := parseID("claim", args[0])
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

	claim, err := resultData(a.queries.Claim(ctx, id), "claim")
	if err != nil {
		return err
	}
	return a.printer.Claim(view.NewClaimDetail(claim))
}
