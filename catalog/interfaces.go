package catalog

import (
	"github.com/s0up4200/reelgrid/movieapi"
)

// Listener receives every published Snapshot, in publication order
type Listener func(Snapshot)

// Formatter defines the interface for rendering catalog state
type Formatter interface {
	FormatPage(snap Snapshot, state ControllerState) string
	FormatMovieList(movies []movieapi.Movie) string
	FormatGrid(movies []movieapi.Movie) string
	FormatDetail(movie movieapi.Movie) string
	FormatResultsCount(total int, search, genre string) string
	FormatPagination(p *movieapi.PaginationInfo) string
	FormatError(err error) string
}

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails  bool
	ShowOverview bool
	MaxGenres    int
	OverviewLen  int
	Columns      int
	CardWidth    int
}

// DefaultFormatOptions mirrors what a movie card shows
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		ShowOverview: true,
		MaxGenres:    2,
		OverviewLen:  150,
		Columns:      3,
		CardWidth:    34,
	}
}
