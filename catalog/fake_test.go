package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/s0up4200/reelgrid/movieapi"
)

// fakeAPI is an in-memory movieapi.API
type fakeAPI struct {
	mu       sync.Mutex
	queries  []movieapi.MoviesQuery
	moviesFn func(ctx context.Context, q movieapi.MoviesQuery) (*movieapi.MoviesResponse, error)

	detailCalls atomic.Int32
	detailFn    func(ctx context.Context, id string) (*movieapi.Movie, error)
}

func (f *fakeAPI) GetMovies(ctx context.Context, q movieapi.MoviesQuery) (*movieapi.MoviesResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.moviesFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	return pageOf(q, 3, fmt.Sprintf("Movie p%d", q.Page)), nil
}

func (f *fakeAPI) GetMovieByID(ctx context.Context, id string) (*movieapi.Movie, error) {
	f.detailCalls.Add(1)
	if f.detailFn != nil {
		return f.detailFn(ctx, id)
	}
	return &movieapi.Movie{ID: movieapi.FlexString(id), Title: "Detail " + id, Overview: "Full record"}, nil
}

func (f *fakeAPI) calls() []movieapi.MoviesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]movieapi.MoviesQuery(nil), f.queries...)
}

func (f *fakeAPI) lastQuery() movieapi.MoviesQuery {
	calls := f.calls()
	if len(calls) == 0 {
		return movieapi.MoviesQuery{}
	}
	return calls[len(calls)-1]
}

func pageOf(q movieapi.MoviesQuery, totalPages int, titles ...string) *movieapi.MoviesResponse {
	movies := make([]movieapi.Movie, 0, len(titles))
	for i, title := range titles {
		movies = append(movies, movieapi.Movie{ID: movieapi.FlexString(fmt.Sprint(i + 1)), Title: title})
	}
	return &movieapi.MoviesResponse{
		Data:       movies,
		TotalPages: totalPages,
		Pagination: movieapi.PaginationInfo{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      totalPages * q.Limit,
			TotalPages: totalPages,
		},
	}
}
