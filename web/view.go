package web

import (
	"net/url"
	"strconv"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/movieapi"
)

const overviewLength = 150

// cardView is one movie card on the catalog page
type cardView struct {
	ID       string
	Title    string
	Year     int
	Genres   []string
	Rating   string
	Runtime  string
	Votes    string
	Overview string
	Poster   string
}

// pageLink is one entry of the pagination control
type pageLink struct {
	Number   int
	URL      string
	Current  bool
	Ellipsis bool
}

// pageView is the data rendered by the catalog template
type pageView struct {
	Search  string
	Genre   string
	Filter  string
	Genres  []movieapi.Genre
	Filters []string
	Header  string
	Results string
	Cards   []cardView
	Pages   []pageLink
	PrevURL string
	NextURL string
	Page    int
	Total   int
	Count   string
	Error   string
	Stale   bool
	Empty   bool
	Reload  string
}

func newCardView(m movieapi.Movie) cardView {
	card := cardView{
		ID:       m.ID.String(),
		Title:    m.Title,
		Year:     catalog.Year(m),
		Genres:   catalog.GenreNames(m, 2),
		Rating:   catalog.RatingLabel(m),
		Runtime:  catalog.RuntimeLabel(m),
		Overview: catalog.Truncate(m.Overview, overviewLength),
		Poster:   catalog.PosterURL(m),
	}
	if m.VoteCount > 0 {
		card.Votes = catalog.FormatCount(m.VoteCount)
	}
	return card
}

// pageURL builds a link to page n that keeps the current search, genre and
// filter
func pageURL(q catalog.Query, filterName string, n int) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if filterName != "" {
		v.Set("filter", filterName)
	}
	if n > 1 {
		v.Set("page", strconv.Itoa(n))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func buildPageView(snap catalog.Snapshot, movies []movieapi.Movie, filterName string, filters []string) pageView {
	q := snap.Query
	view := pageView{
		Search:  q.Search,
		Genre:   q.Genre,
		Filter:  filterName,
		Genres:  movieapi.AllGenres(),
		Filters: filters,
		Page:    q.Page,
		Reload:  pageURL(q, filterName, q.Page),
	}

	for _, m := range movies {
		view.Cards = append(view.Cards, newCardView(m))
	}

	if snap.Err != nil {
		view.Error = catalog.ErrorMessage(snap.Err)
		view.Stale = len(view.Cards) > 0
	}

	p := snap.Pagination
	if p == nil {
		view.Empty = snap.Err == nil && len(view.Cards) == 0
		return view
	}

	view.Empty = len(view.Cards) == 0
	view.Total = p.TotalPages
	view.Count = catalog.FormatCount(p.Total)
	if snap.Err == nil {
		view.Header = "Movies • " + view.Count
		view.Results = resultsSummary(p.Total, q.Search, q.Genre)
	}

	for _, item := range catalog.PageNumbers(p.Page, p.TotalPages) {
		link := pageLink{Number: item.Number, Current: item.Current, Ellipsis: item.Ellipsis}
		if !item.Ellipsis {
			link.URL = pageURL(q, filterName, item.Number)
		}
		view.Pages = append(view.Pages, link)
	}
	if p.HasPrevious() {
		view.PrevURL = pageURL(q, filterName, p.Page-1)
	}
	if p.HasNext() {
		view.NextURL = pageURL(q, filterName, p.Page+1)
	}

	return view
}

var resultsFormatter = catalog.NewConsoleFormatter(catalog.DefaultFormatOptions())

// resultsSummary describes the total only when a search or genre is active
func resultsSummary(total int, search, genre string) string {
	if search == "" && genre == "" {
		return ""
	}
	return resultsFormatter.FormatResultsCount(total, search, genre)
}
