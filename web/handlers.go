package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/filter"
	"github.com/s0up4200/reelgrid/movieapi"
)

// movieDetail is the payload of the detail endpoint: the merged record plus
// the labels the cards display
type movieDetail struct {
	Movie    movieapi.Movie `json:"movie"`
	Year     int            `json:"year,omitempty"`
	Genres   []string       `json:"genres"`
	Rating   string         `json:"rating,omitempty"`
	Runtime  string         `json:"runtime,omitempty"`
	Released string         `json:"released,omitempty"`
	Poster   string         `json:"poster,omitempty"`
}

func newMovieDetail(m movieapi.Movie) movieDetail {
	genres := catalog.GenreNames(m, 0)
	if genres == nil {
		genres = []string{}
	}
	return movieDetail{
		Movie:    m,
		Year:     catalog.Year(m),
		Genres:   genres,
		Rating:   catalog.RatingLabel(m),
		Runtime:  catalog.RuntimeLabel(m),
		Released: catalog.ReleaseDate(m),
		Poster:   catalog.PosterURL(m),
	}
}

// parseQuery reads the catalog query from the URL. The page parameter must be
// numeric when present.
func parseQuery(v url.Values, pageSize int) (catalog.Query, error) {
	q := catalog.Query{
		Page:   1,
		Limit:  pageSize,
		Search: v.Get("search"),
		Genre:  v.Get("genre"),
	}
	if raw := strings.TrimSpace(v.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("page must be a number")
		}
		q.Page = page
	}
	return q.Normalize(), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), s.pageSize)
	if err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	filterName := strings.TrimSpace(r.URL.Query().Get("filter"))

	coord := catalog.NewCoordinator(s.api, s.logger)
	defer coord.Close()

	if err := coord.SetQuery(q); err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	done := make(chan struct{})
	go func() {
		coord.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-r.Context().Done():
		return
	}

	snap := coord.Snapshot()
	movies := snap.Movies

	var filters []string
	if s.filters != nil {
		filters = s.filters.ListFilters()
	}

	if filterName != "" {
		if s.filters == nil {
			s.errorResponse(w, r, http.StatusBadRequest, (&filter.UnknownFilterError{Name: filterName}).Error())
			return
		}
		movies, err = s.filters.EvaluateFilter(filterName, movies)
		if err != nil {
			s.errorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	view := buildPageView(snap, movies, filterName, filters)

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, view); err != nil {
		s.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logError(r, err)
	}
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	ctx := r.Context()

	movie, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("Detail cache lookup failed")
	}

	if !ok {
		movie, err = s.api.GetMovieByID(ctx, id)
		if err != nil {
			var apiErr *movieapi.APIError
			switch {
			case errors.Is(err, movieapi.ErrMissingID):
				s.notFoundResponse(w, r)
			case errors.As(err, &apiErr) && apiErr.IsNotFound():
				s.notFoundResponse(w, r)
			default:
				s.badGatewayResponse(w, r, err)
			}
			return
		}

		if err := s.cache.Set(ctx, id, movie); err != nil {
			s.logger.Warn().Err(err).Str("id", id).Msg("Failed to cache movie detail")
		}
	}

	if err := s.writeJSON(w, http.StatusOK, newMovieDetail(*movie), nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health, err := s.api.HealthCheck(ctx)
	if err != nil {
		s.logError(r, err)
		s.errorResponse(w, r, http.StatusServiceUnavailable, "The movie service is unavailable")
		return
	}

	resp := map[string]string{
		"status":   "ok",
		"upstream": health.Status,
	}
	if err := s.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
