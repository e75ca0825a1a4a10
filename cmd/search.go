package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/reelsearch/filter"
	"github.com/s0up4200/reelsearch/render"
	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
)

var (
	filterExpr   string
	hideOverview bool
	hidePosters  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query> [query...]",
	Short: "Search movies by title",
	Long: `Search TMDB for one or more titles and print the first page of results
for each. Queries run concurrently and are printed in argument order.

Results can be narrowed with --filter, an expression over the fields
id, title, overview, year, released and hasPoster:

  reelsearch search batman --filter 'year >= 2000 && hasPoster'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().BoolVar(&hideOverview, "no-overview", false, "omit movie overviews")
	searchCmd.Flags().BoolVar(&hidePosters, "no-posters", false, "omit poster URLs")
}

func runSearch(cmd *cobra.Command, args []string) error {
	var f *filter.Filter
	if filterExpr != "" {
		var err error
		f, err = filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		logger.Debug().Str("filter", f.Expression()).Msg("Filtering results")
	}

	messages := search.MessagesFor(cfg.TMDB.Language)
	formatter := render.NewConsoleFormatter(imageSize(), messages)
	formatter.ShowOverview = !hideOverview
	formatter.ShowPosters = !hidePosters

	results, err := searchAll(cmd.Context(), client, args)
	if err != nil {
		failure := search.NewFailure(err, messages)
		logger.Error().Err(err).Stringer("category", failure.Category).Msg("Search failed")
		return fmt.Errorf("%s: %w", failure.Message, err)
	}

	return printResults(cmd.OutOrStdout(), formatter, f, args, results)
}

// searchAll runs one page-1 search per query concurrently. Results keep the
// order of queries; the first failure cancels the remaining searches.
func searchAll(ctx context.Context, searcher tmdb.Searcher, queries []string) ([]*tmdb.SearchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]*tmdb.SearchResult, len(queries))
	g, ctx := errgroup.WithContext(ctx)

	for i, query := range queries {
		g.Go(func() error {
			logger.Debug().Str("query", query).Msg("Searching")
			result, err := searcher.Search(ctx, tmdb.SearchQuery{Text: query, Page: 1})
			if err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(w io.Writer, formatter *render.ConsoleFormatter, f *filter.Filter, queries []string, results []*tmdb.SearchResult) error {
	for i, query := range queries {
		result := results[i]
		movies := result.Items

		if f != nil {
			var err error
			movies, err = f.Apply(movies)
			if err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, formatter.FormatResults(query, movies, result.TotalResults)); err != nil {
			return err
		}
	}
	return nil
}
