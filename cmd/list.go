package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/filter"
	"github.com/s0up4200/reelgrid/movieapi"
)

// listOptions holds the flags of the list command
type listOptions struct {
	query      catalog.Query
	where      string
	filterName string
	details    bool
	grid       bool
	prefetch   int
}

var listOpts listOptions

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of movies",
	Long: `List one page of the catalog, optionally narrowed by title search and genre.

A refine expression (--where) or a named filter from the config (--filter) can
further narrow the page, e.g.:

  reelgrid list --genre Drama --where 'Rating >= 7 and Year < 2000'`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listOpts.query.Page, "page", "p", 1, "page number")
	listCmd.Flags().IntVarP(&listOpts.query.Limit, "limit", "l", 0, "movies per page (default from config)")
	listCmd.Flags().StringVarP(&listOpts.query.Search, "search", "s", "", "title search")
	listCmd.Flags().StringVarP(&listOpts.query.Genre, "genre", "g", "", "genre name")
	listCmd.Flags().StringVarP(&listOpts.where, "where", "w", "", "refine expression applied to the page")
	listCmd.Flags().StringVarP(&listOpts.filterName, "filter", "f", "", "named filter from the config")
	listCmd.Flags().BoolVarP(&listOpts.details, "details", "d", false, "fetch the full record of every movie on the page")
	listCmd.Flags().BoolVar(&listOpts.grid, "grid", false, "render movies as a card grid")
}

func runList(cmd *cobra.Command, args []string) error {
	opts := listOpts
	if opts.query.Limit == 0 {
		opts.query.Limit = cfg.Catalog.PageSize
	}
	opts.prefetch = cfg.Catalog.PrefetchConcurrency

	var refine filter.Filter
	switch {
	case opts.where != "":
		compiled, err := filter.CompileFilter(opts.where)
		if err != nil {
			return fmt.Errorf("invalid refine expression: %w", err)
		}
		refine = compiled
	case opts.filterName != "":
		manager, err := newFilterManager(cfg.Filter)
		if err != nil {
			return err
		}
		named, ok := manager.GetFilter(opts.filterName)
		if !ok {
			return &filter.UnknownFilterError{Name: opts.filterName}
		}
		refine = named
	}

	display := formatOptions(cfg.Display)
	if opts.details {
		display.ShowDetails = true
	}

	return listMovies(cmd.Context(), cmd.OutOrStdout(), client, logger, opts, refine, catalog.NewConsoleFormatter(display))
}

// listMovies fetches one page through a coordinator and prints it
func listMovies(ctx context.Context, out io.Writer, api movieapi.API, logger zerolog.Logger, opts listOptions, refine filter.Filter, formatter catalog.Formatter) error {
	coord := catalog.NewCoordinator(api, logger)
	defer coord.Close()

	stop := context.AfterFunc(ctx, coord.Close)
	defer stop()

	if err := coord.SetQuery(opts.query); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	coord.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := coord.Snapshot()
	if snap.Err != nil {
		return fmt.Errorf("failed to list movies: %w", snap.Err)
	}

	cards := catalog.NewCards(api, snap.Movies, logger)
	if opts.details {
		if err := catalog.Prefetch(ctx, cards, opts.prefetch); err != nil {
			return fmt.Errorf("failed to load movie details: %w", err)
		}
	}

	movies := catalog.Displays(cards)
	if refine != nil {
		movies = filter.Apply(refine, movies)
		logger.Debug().
			Int("fetched", len(snap.Movies)).
			Int("matched", len(movies)).
			Msg("Applied refine filter")
	}

	if snap.Pagination != nil {
		fmt.Fprintln(out, formatter.FormatResultsCount(snap.Pagination.Total, snap.Query.Search, snap.Query.Genre))
		fmt.Fprintln(out)
	}

	if opts.grid {
		fmt.Fprint(out, formatter.FormatGrid(movies))
	} else {
		fmt.Fprint(out, formatter.FormatMovieList(movies))
	}

	if pagination := formatter.FormatPagination(snap.Pagination); pagination != "" {
		fmt.Fprintln(out)
		fmt.Fprint(out, pagination)
	}

	return nil
}
