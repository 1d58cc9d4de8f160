package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/s0up4200/reelgrid/movieapi"
)

// fakeBrowser is an in-memory movieapi.Browser
type fakeBrowser struct {
	mu          sync.Mutex
	queries     []movieapi.MoviesQuery
	detailCalls int
	totalPages  int
	moviesErr   error
}

func (f *fakeBrowser) GetMovies(_ context.Context, q movieapi.MoviesQuery) (*movieapi.MoviesResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.moviesErr != nil {
		return nil, f.moviesErr
	}

	total := f.totalPages
	if total == 0 {
		total = 1
	}
	movies := []movieapi.Movie{
		{ID: movieapi.FlexString(fmt.Sprintf("%d1", q.Page)), Title: "Alien", DatePublished: "1979-05-25", Rating: "8.5"},
		{ID: movieapi.FlexString(fmt.Sprintf("%d2", q.Page)), Title: "Heat", DatePublished: "1995-12-15", Rating: "8.3"},
	}
	return &movieapi.MoviesResponse{
		Data:       movies,
		TotalPages: total,
		Pagination: movieapi.PaginationInfo{Page: q.Page, Limit: q.Limit, Total: total * q.Limit, TotalPages: total},
	}, nil
}

func (f *fakeBrowser) GetMovieByID(_ context.Context, id string) (*movieapi.Movie, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	return &movieapi.Movie{ID: movieapi.FlexString(id), Overview: "Full record " + id, Duration: "PT1H57M"}, nil
}

func (f *fakeBrowser) GetMovieTitles(_ context.Context, page, limit int) (*movieapi.TitlesResponse, error) {
	return &movieapi.TitlesResponse{
		Data:       []movieapi.MovieTitle{{ID: "1", Title: "Alien"}, {ID: "2", Title: "Heat"}},
		Pagination: movieapi.PaginationInfo{Page: page, Limit: limit, TotalPages: 4},
	}, nil
}

func (f *fakeBrowser) GetGenresMovies(_ context.Context, page, limit int) (*movieapi.GenresMoviesResponse, error) {
	return &movieapi.GenresMoviesResponse{
		Data: map[string][]movieapi.FlexString{
			"Horror": {"1"},
			"Crime":  {"2", "3"},
		},
		Pagination: movieapi.PaginationInfo{Page: page, Limit: limit, TotalPages: 1},
	}, nil
}

func (f *fakeBrowser) GetGenreStats(_ context.Context, id string) (*movieapi.GenreStats, error) {
	return &movieapi.GenreStats{ID: movieapi.FlexString(id), Name: "Horror", MovieCount: 1234, AverageRating: 6.4}, nil
}

func (f *fakeBrowser) HealthCheck(context.Context) (*movieapi.Health, error) {
	return &movieapi.Health{Status: "ok"}, nil
}

func (f *fakeBrowser) calls() []movieapi.MoviesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]movieapi.MoviesQuery(nil), f.queries...)
}

func (f *fakeBrowser) details() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls
}

// sizedCatalog reports page counts for a catalog of a fixed size
type sizedCatalog struct {
	size int
}

func (s sizedCatalog) GetMovies(_ context.Context, q movieapi.MoviesQuery) (*movieapi.MoviesResponse, error) {
	pages := (s.size + q.Limit - 1) / q.Limit
	movies := make([]movieapi.Movie, min(q.Limit, s.size))
	return &movieapi.MoviesResponse{
		Data:       movies,
		TotalPages: pages,
		Pagination: movieapi.PaginationInfo{Page: q.Page, Limit: q.Limit, Total: pages * q.Limit, TotalPages: pages},
	}, nil
}

func (s sizedCatalog) GetMovieByID(_ context.Context, id string) (*movieapi.Movie, error) {
	return &movieapi.Movie{ID: movieapi.FlexString(id)}, nil
}
