package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"storefront/catalog"
	"storefront/domain"
	"storefront/logx"
	"storefront/view"
)

// loadCatalog fetches once per process; the shell reuses a good result.
func loadCatalog(ctx context.Context) ([]domain.Product, error) {
	snap := fetcher.Snapshot()
	if !snap.FetchedAt.IsZero() && snap.Err == nil {
		return snap.Products, nil
	}
	if err := fetcher.Fetch(ctx); err != nil {
		return nil, err
	}
	return fetcher.Products(), nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, domain.NewInvalidFilterError("id", "expected a positive integer", s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printProduct(w io.Writer, p domain.Product) {
	line := fmt.Sprintf("%d | %s | %s | %s | %.1f | %s",
		p.ID, p.Title, p.Brand, p.Category, p.Rating, domain.FormatPrice(p.Price, currency))
	if badge := p.DiscountBadge(); badge != "" {
		line += " | " + badge
	}
	fmt.Fprintln(w, line)
}

func heading(category string, n int) string {
	return fmt.Sprintf("%s (%d items)", view.CategoryLabel(category), n)
}

func init() {
	// products
	var pCategory, pSearch, pSort, pOutput string
	var pMax float64
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog through the active filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pMax < 0 {
				return domain.NewInvalidFilterError("max-price", "must be >= 0", pMax)
			}
			sortMode, err := domain.ParseSortMode(pSort)
			if err != nil {
				return err
			}

			start := time.Now()
			products, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			appState.MergeFilters(domain.FilterPatch{
				Search:   &pSearch,
				Category: &pCategory,
				MaxPrice: &pMax,
				Sort:     &sortMode,
			})
			appState.FlushSearch()
			f := appState.EffectiveFilters()
			out := view.Derive(products, f)
			logx.Debug().Int("catalog", len(products)).Int("visible", len(out)).
				Int64("duration_ms", time.Since(start).Milliseconds()).Msg("products listed")

			w := cmd.OutOrStdout()
			if pOutput == "json" {
				return printJSON(w, out)
			}
			fmt.Fprintln(w, heading(f.Category, len(out)))
			if len(out) == 0 {
				fmt.Fprintln(w, "No products found")
				return nil
			}
			for _, p := range out {
				printProduct(w, p)
			}
			return nil
		},
	}
	productsCmd.Flags().StringVar(&pCategory, "category", domain.AllCategories, "category, or All")
	productsCmd.Flags().StringVar(&pSearch, "search", "", "match title or brand")
	productsCmd.Flags().Float64Var(&pMax, "max-price", domain.DefaultMaxPrice, "maximum price")
	productsCmd.Flags().StringVar(&pSort, "sort", domain.SortNewest.Key(), "sort: price-asc|price-desc|rating|newest")
	productsCmd.Flags().StringVar(&pOutput, "output", "", "output format")
	rootCmd.AddCommand(productsCmd)

	// categories
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range catalog.Categories(products) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	rootCmd.AddCommand(categoriesCmd)

	// show
	var noInsight bool
	var sOutput string
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show product details and a shopping insight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			products, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			p, err := catalog.FindByID(products, id)
			if err != nil {
				if domain.IsProductNotFoundError(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return nil
				}
				return err
			}

			var text string
			if !noInsight {
				text = insights.Insight(cmd.Context(), p.Title, p.Description)
			}

			w := cmd.OutOrStdout()
			if sOutput == "json" {
				return printJSON(w, struct {
					domain.Product
					Insight string `json:"insight,omitempty"`
				}{p, text})
			}
			printProduct(w, p)
			fmt.Fprintln(w, p.Description)
			for i, img := range p.Gallery(4) {
				fmt.Fprintf(w, "image %d: %s\n", i+1, img)
			}
			fmt.Fprintf(w, "Only %d items left in stock. Fast delivery available.\n", p.Stock)
			if text != "" {
				fmt.Fprintln(w, "AI Shopping Insight: "+text)
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&noInsight, "no-insight", false, "skip the generated insight")
	showCmd.Flags().StringVar(&sOutput, "output", "", "output format")
	rootCmd.AddCommand(showCmd)
}
