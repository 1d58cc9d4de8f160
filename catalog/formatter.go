package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/s0up4200/reelgrid/movieapi"
)

// ConsoleFormatter provides console output formatting for the catalog
type ConsoleFormatter struct {
	opts FormatOptions
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(opts FormatOptions) *ConsoleFormatter {
	def := DefaultFormatOptions()
	if opts.Columns < 1 {
		opts.Columns = def.Columns
	}
	if opts.CardWidth < 16 {
		opts.CardWidth = def.CardWidth
	}
	if opts.MaxGenres == 0 {
		opts.MaxGenres = def.MaxGenres
	}
	if opts.OverviewLen == 0 {
		opts.OverviewLen = def.OverviewLen
	}
	return &ConsoleFormatter{opts: opts}
}

// FormatPage renders the whole catalog screen for a snapshot
func (f *ConsoleFormatter) FormatPage(snap Snapshot, state ControllerState) string {
	var sb strings.Builder

	sb.WriteString("\nMovies")
	if snap.Pagination != nil && !snap.IsLoading() && snap.Err == nil {
		fmt.Fprintf(&sb, " • %s", f.FormatResultsCount(snap.Pagination.Total, state.DebouncedSearch, state.Genre))
	}
	sb.WriteString("\n")
	if state.SearchQuery != state.DebouncedSearch {
		fmt.Fprintf(&sb, "Searching for %q...\n", state.SearchQuery)
	}
	sb.WriteString("\n")

	switch {
	case snap.IsLoading():
		sb.WriteString("Loading movies...\n")
	case snap.Err != nil:
		sb.WriteString(f.FormatError(snap.Err))
		if len(snap.Movies) > 0 {
			sb.WriteString("\nShowing previous results:\n\n")
			sb.WriteString(f.FormatGrid(snap.Movies))
		}
	case snap.Status == StatusIdle && snap.Pagination == nil:
		sb.WriteString("Nothing loaded yet\n")
	default:
		sb.WriteString(f.FormatGrid(snap.Movies))
		if pagination := f.FormatPagination(snap.Pagination); pagination != "" {
			sb.WriteString("\n")
			sb.WriteString(pagination)
		}
	}

	return sb.String()
}

// FormatResultsCount renders the result total with any active filters
func (f *ConsoleFormatter) FormatResultsCount(total int, search, genre string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s result", FormatCount(total))
	if total != 1 {
		sb.WriteString("s")
	}
	if search != "" {
		fmt.Fprintf(&sb, " for %q", search)
	}
	if genre != "" {
		fmt.Fprintf(&sb, " in %s", genre)
	}
	return sb.String()
}

// FormatPagination renders the page summary and page numbers. It returns ""
// when there is at most one page.
func (f *ConsoleFormatter) FormatPagination(p *movieapi.PaginationInfo) string {
	if p == nil || p.TotalPages <= 1 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Showing page %d of %d - %s total results\n", p.Page, p.TotalPages, FormatCount(p.Total))

	var parts []string
	if p.HasPrevious() {
		parts = append(parts, "‹ Prev")
	}
	for _, item := range PageNumbers(p.Page, p.TotalPages) {
		switch {
		case item.Ellipsis:
			parts = append(parts, "…")
		case item.Current:
			parts = append(parts, fmt.Sprintf("[%d]", item.Number))
		default:
			parts = append(parts, fmt.Sprintf("%d", item.Number))
		}
	}
	if p.HasNext() {
		parts = append(parts, "Next ›")
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString("\n")
	return sb.String()
}

// FormatError renders the error panel
func (f *ConsoleFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Oops! Something went wrong\n")
	fmt.Fprintf(&sb, "│ %s\n", ErrorMessage(err))
	sb.WriteString("╰ Reload the page to try again\n")
	return sb.String()
}

// ErrorMessage turns a fetch error into a short user-facing sentence
func ErrorMessage(err error) string {
	var apiErr *movieapi.APIError
	var authErr *movieapi.AuthError
	switch {
	case errors.As(err, &authErr):
		return "Could not authenticate with the movie service"
	case errors.As(err, &apiErr) && apiErr.IsNotFound():
		return "The requested movies could not be found"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("The movie service responded with %d %s", apiErr.StatusCode, apiErr.Message)
	default:
		return err.Error()
	}
}

// FormatMovieList formats movies as a tree, one entry per movie
func (f *ConsoleFormatter) FormatMovieList(movies []movieapi.Movie) string {
	if len(movies) == 0 {
		return "No movies found"
	}

	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(movies))

	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, movie movieapi.Movie, isLast bool) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s", prefix, movie.Title)
	if year := Year(movie); year > 0 {
		fmt.Fprintf(sb, " (%d)", year)
	}
	if rating := RatingLabel(movie); rating != "" {
		fmt.Fprintf(sb, " ★ %s", rating)
	}
	sb.WriteString("\n")

	if genres := GenreNames(movie, f.opts.MaxGenres); len(genres) > 0 {
		fmt.Fprintf(sb, "%sGenres: %s\n", indent, strings.Join(genres, ", "))
	}

	var meta []string
	if runtime := RuntimeLabel(movie); runtime != "" {
		meta = append(meta, runtime)
	}
	if movie.VoteCount > 0 {
		meta = append(meta, FormatCount(movie.VoteCount)+" votes")
	}
	if len(meta) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(meta, " | "))
	}

	if f.opts.ShowDetails {
		fmt.Fprintf(sb, "%sID: %s\n", indent, movie.ID)
		if poster := PosterURL(movie); poster != "" {
			fmt.Fprintf(sb, "%sPoster: %s\n", indent, poster)
		}
	}

	if f.opts.ShowOverview && movie.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, Truncate(movie.Overview, f.opts.OverviewLen))
	}
}

// FormatDetail formats the full record of one movie
func (f *ConsoleFormatter) FormatDetail(movie movieapi.Movie) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s", movie.Title)
	if year := Year(movie); year > 0 {
		fmt.Fprintf(&sb, " (%d)", year)
	}
	sb.WriteString("\n")

	var lines [][2]string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, [2]string{label, value})
		}
	}

	rating := RatingLabel(movie)
	if rating != "" && movie.VoteCount > 0 {
		rating = fmt.Sprintf("%s (%s votes)", rating, FormatCount(movie.VoteCount))
	}
	add("Rating", rating)
	add("Genres", strings.Join(GenreNames(movie, 0), ", "))
	add("Runtime", RuntimeLabel(movie))
	add("Released", ReleaseDate(movie))
	add("Language", movie.OriginalLanguage)
	add("Poster", PosterURL(movie))
	add("ID", movie.ID.String())
	add("Overview", movie.Overview)

	for i, line := range lines {
		prefix := "├── "
		if i == len(lines)-1 {
			prefix = "╰── "
		}
		fmt.Fprintf(&sb, "%s%s: %s\n", prefix, line[0], line[1])
	}

	return sb.String()
}

// FormatGrid lays movie cards out in rows of the configured column count
func (f *ConsoleFormatter) FormatGrid(movies []movieapi.Movie) string {
	if len(movies) == 0 {
		return "No results for this category\n"
	}

	var sb strings.Builder
	for start := 0; start < len(movies); start += f.opts.Columns {
		end := min(start+f.opts.Columns, len(movies))

		var row [][]string
		height := 0
		for i := start; i < end; i++ {
			card := f.cardLines(i+1, movies[i])
			height = max(height, len(card))
			row = append(row, card)
		}

		for line := 0; line < height; line++ {
			for col, card := range row {
				if col > 0 {
					sb.WriteString("  ")
				}
				if line < len(card) {
					sb.WriteString(card[line])
				} else {
					sb.WriteString(strings.Repeat(" ", f.opts.CardWidth))
				}
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// cardLines renders one boxed card. Every card of a grid has the same height
// so rows line up.
func (f *ConsoleFormatter) cardLines(n int, movie movieapi.Movie) []string {
	inner := f.opts.CardWidth - 4

	var body []string

	title := fmt.Sprintf("%d. %s", n, movie.Title)
	if rating := RatingLabel(movie); rating != "" {
		badge := " ★" + rating
		title = fit(title, inner-utf8.RuneCountInString(badge))
		title = padRight(title, inner-utf8.RuneCountInString(badge)) + badge
	} else {
		title = fit(title, inner)
	}
	body = append(body, title)

	var meta []string
	if year := Year(movie); year > 0 {
		meta = append(meta, fmt.Sprintf("%d", year))
	}
	if genres := GenreNames(movie, f.opts.MaxGenres); len(genres) > 0 {
		meta = append(meta, strings.Join(genres, ", "))
	}
	body = append(body, fit(strings.Join(meta, " • "), inner))

	var stats []string
	if runtime := RuntimeLabel(movie); runtime != "" {
		stats = append(stats, runtime)
	}
	if movie.VoteCount > 0 {
		stats = append(stats, FormatCount(movie.VoteCount)+" votes")
	}
	body = append(body, fit(strings.Join(stats, " • "), inner))

	if f.opts.ShowOverview {
		overview := wrap(Truncate(movie.Overview, f.opts.OverviewLen), inner, 3)
		for len(overview) < 3 {
			overview = append(overview, "")
		}
		body = append(body, overview...)
	}

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, "╭"+strings.Repeat("─", inner+2)+"╮")
	for _, l := range body {
		lines = append(lines, "│ "+padRight(l, inner)+" │")
	}
	lines = append(lines, "╰"+strings.Repeat("─", inner+2)+"╯")
	return lines
}

// fit shortens s to width runes, ellipsis included
func fit(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return Truncate(s, width-3)
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits text into at most maxLines lines of width runes. Overflow on
// the last line is marked with an ellipsis.
func wrap(text string, width, maxLines int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) > width {
			word = string([]rune(word)[:width])
		}
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[maxLines-1] = strings.TrimSpace(string(last)) + "..."
	}
	return lines
}
