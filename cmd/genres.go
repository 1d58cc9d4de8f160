package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/movieapi"
)

var (
	genreStatsID string
	genreMovies  bool
	pageFlag     int
	limitFlag    int
)

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the known genres",
	Long: `List the genres the catalog can be filtered by.

With --stats the service is asked for statistics of one genre, and with
--movies the genre to movie mapping is fetched from the service.`,
	RunE: runGenres,
}

// titlesCmd represents the titles command
var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List movie titles",
	RunE:  runTitles,
}

func init() {
	genresCmd.Flags().StringVar(&genreStatsID, "stats", "", "show statistics for the genre with this id")
	genresCmd.Flags().BoolVar(&genreMovies, "movies", false, "list movie ids per genre")
	genresCmd.Flags().IntVarP(&pageFlag, "page", "p", 1, "page number for --movies")
	genresCmd.Flags().IntVarP(&limitFlag, "limit", "l", movieapi.DefaultLimit, "page size for --movies")

	titlesCmd.Flags().IntVarP(&pageFlag, "page", "p", 1, "page number")
	titlesCmd.Flags().IntVarP(&limitFlag, "limit", "l", movieapi.DefaultLimit, "titles per page")
}

func runGenres(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	switch {
	case genreStatsID != "":
		return printGenreStats(ctx, out, client, genreStatsID)
	case genreMovies:
		return printGenresMovies(ctx, out, client, pageFlag, limitFlag)
	}

	printGenreTable(out, movieapi.AllGenres())
	return nil
}

func printGenreTable(out io.Writer, genres []movieapi.Genre) {
	fmt.Fprintf(out, "Genres (%d):\n", len(genres))
	for i, genre := range genres {
		prefix := "├──"
		if i == len(genres)-1 {
			prefix = "╰──"
		}
		fmt.Fprintf(out, "%s %-16s %d\n", prefix, genre.Name, genre.ID)
	}
}

func printGenreStats(ctx context.Context, out io.Writer, api movieapi.Browser, id string) error {
	stats, err := api.GetGenreStats(ctx, id)
	if err != nil {
		return err
	}

	name := stats.Name
	if name == "" {
		name = stats.ID.String()
	}
	fmt.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "├── Movies: %s\n", catalog.FormatCount(stats.MovieCount))
	fmt.Fprintf(out, "╰── Average rating: %.1f\n", stats.AverageRating)
	return nil
}

func printGenresMovies(ctx context.Context, out io.Writer, api movieapi.Browser, page, limit int) error {
	resp, err := api.GetGenresMovies(ctx, page, limit)
	if err != nil {
		return err
	}

	names := slices.Sorted(maps.Keys(resp.Data))

	for i, name := range names {
		ids := resp.Data[name]
		prefix, child := "├──", "│  "
		if i == len(names)-1 {
			prefix, child = "╰──", "   "
		}
		fmt.Fprintf(out, "%s %s (%d)\n", prefix, name, len(ids))

		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			parts = append(parts, id.String())
		}
		if len(parts) > 0 {
			fmt.Fprintf(out, "%s ╰── %s\n", child, strings.Join(parts, ", "))
		}
	}

	if resp.Pagination.TotalPages > 1 {
		fmt.Fprintf(out, "\nPage %d of %d\n", resp.Pagination.Page, resp.Pagination.TotalPages)
	}
	return nil
}

func runTitles(cmd *cobra.Command, args []string) error {
	return printTitles(cmd.Context(), cmd.OutOrStdout(), client, pageFlag, limitFlag)
}

func printTitles(ctx context.Context, out io.Writer, api movieapi.Browser, page, limit int) error {
	resp, err := api.GetMovieTitles(ctx, page, limit)
	if err != nil {
		return err
	}

	if len(resp.Data) == 0 {
		fmt.Fprintln(out, "No titles found.")
		return nil
	}

	for _, title := range resp.Data {
		fmt.Fprintf(out, "%-8s %s\n", title.ID, title.Title)
	}

	if resp.Pagination.TotalPages > 1 {
		fmt.Fprintf(out, "\nPage %d of %d\n", resp.Pagination.Page, resp.Pagination.TotalPages)
	}
	return nil
}
