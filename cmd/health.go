package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/movieapi"
)

var checkPagination bool

// paginationLimits are the page sizes compared by health --pagination
var paginationLimits = []int{movieapi.DefaultLimit, 20, 5, 100}

var errPaginationMismatch = errors.New("page counts disagree across page sizes")

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Test the connection to the movie service",
	Long: `Check that the movie service is reachable and that a token can be obtained.

With --pagination, also request the first page of movies at several page sizes
and check that the reported page counts describe the same catalog size.`,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&checkPagination, "pagination", false, "compare page counts across page sizes")
}

func runHealth(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	fmt.Fprintf(out, "Testing connection to %s...\n", client.BaseURL())

	health, err := client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Fprintf(out, "✓ Service status: %s\n", health.Status)

	if _, err := client.Token(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Authentication successful!")

	if checkPagination {
		return diagnosePagination(ctx, out, client, paginationLimits)
	}
	return nil
}

// diagnosePagination fetches page 1 at every limit and reports the total
// derived from totalPages × limit. The service only reports a page count, so
// each answer pins the catalog size to a range; the answers agree when those
// ranges overlap.
func diagnosePagination(ctx context.Context, out io.Writer, api movieapi.API, limits []int) error {
	fmt.Fprintln(out, "Pagination:")

	lo, hi := 0, -1
	for i, limit := range limits {
		resp, err := api.GetMovies(ctx, movieapi.MoviesQuery{Page: 1, Limit: limit})
		if err != nil {
			return fmt.Errorf("limit %d: %w", limit, err)
		}

		prefix := "├── "
		if i == len(limits)-1 {
			prefix = "╰── "
		}
		pages := resp.Pagination.TotalPages
		fmt.Fprintf(out, "%slimit %d: %s pages × %d = %s movies (%d returned)",
			prefix, limit, catalog.FormatCount(pages), limit,
			catalog.FormatCount(resp.Pagination.Total), len(resp.Data))
		if len(resp.Data) > limit {
			fmt.Fprint(out, " ✗ more than requested")
		}
		fmt.Fprintln(out)

		minTotal, maxTotal := 0, 0
		if pages > 0 {
			minTotal, maxTotal = (pages-1)*limit+1, pages*limit
		}
		if i == 0 {
			lo, hi = minTotal, maxTotal
			continue
		}
		lo, hi = max(lo, minTotal), min(hi, maxTotal)
	}

	if lo > hi {
		fmt.Fprintln(out, "✗ Page counts disagree: no catalog size fits every page size")
		return errPaginationMismatch
	}
	if lo == hi {
		fmt.Fprintf(out, "✓ Page counts agree: %s movies\n", catalog.FormatCount(lo))
		return nil
	}
	fmt.Fprintf(out, "✓ Page counts agree: between %s and %s movies\n", catalog.FormatCount(lo), catalog.FormatCount(hi))
	return nil
}
