package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelgrid/filter"
	"github.com/s0up4200/reelgrid/movieapi"
)

type fakeService struct {
	mu      sync.Mutex
	queries []movieapi.MoviesQuery

	moviesErr   error
	totalPages  int
	detailCalls atomic.Int32
	detailErr   error
	healthErr   error
}

func (f *fakeService) GetMovies(_ context.Context, q movieapi.MoviesQuery) (*movieapi.MoviesResponse, error) {
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
	return &movieapi.MoviesResponse{
		Data: []movieapi.Movie{
			{ID: "1", Title: "Alien", DatePublished: "1979-05-25", Rating: "8.5", Genres: movieapi.GenreList{"Horror", "Science Fiction"}},
			{ID: "2", Title: "Aliens", DatePublished: "1986-07-18", Rating: "6.1", Duration: "PT2H17M"},
		},
		TotalPages: total,
		Pagination: movieapi.PaginationInfo{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total * q.Limit,
			TotalPages: total,
		},
	}, nil
}

func (f *fakeService) GetMovieByID(_ context.Context, id string) (*movieapi.Movie, error) {
	f.detailCalls.Add(1)
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return &movieapi.Movie{
		ID:       movieapi.FlexString(id),
		Title:    "Alien",
		Overview: "In space no one can hear you scream.",
		Duration: "PT1H57M",
		GenreIDs: []int{27, 878},
	}, nil
}

func (f *fakeService) HealthCheck(context.Context) (*movieapi.Health, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &movieapi.Health{Status: "ok"}, nil
}

func (f *fakeService) lastQuery() movieapi.MoviesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return movieapi.MoviesQuery{}
	}
	return f.queries[len(f.queries)-1]
}

func newTestServer(t *testing.T, svc *fakeService, opts ...Option) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(svc, zerolog.Nop(), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex_RendersCards(t *testing.T) {
	svc := &fakeService{totalPages: 24}
	srv := newTestServer(t, svc)

	resp, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Contains(t, body, "Alien")
	assert.Contains(t, body, "1979")
	assert.Contains(t, body, "Horror, Science Fiction")
	assert.Contains(t, body, "2h 17m")
	assert.Contains(t, body, "Movies • 480")
	assert.Contains(t, body, "Showing page 1 of 24 - 480 total results")
	assert.Contains(t, body, `<span class="current">1</span>`)
	assert.Contains(t, body, "…")
	assert.NotContains(t, body, "‹ Prev")
	assert.Contains(t, body, "Next ›")

	assert.Equal(t, movieapi.MoviesQuery{Page: 1, Limit: 20}, svc.lastQuery())
}

func TestIndex_PassesQuery(t *testing.T) {
	svc := &fakeService{totalPages: 3}
	srv := newTestServer(t, svc, WithPageSize(10))

	resp, body := get(t, srv.URL+"/?page=2&search=+alien+&genre=Horror")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, movieapi.MoviesQuery{Page: 2, Limit: 10, Search: "alien", Genre: "Horror"}, svc.lastQuery())
	assert.Contains(t, body, "30 results for &#34;alien&#34; in Horror")
	// page links keep the filters
	assert.Contains(t, body, `href="/?genre=Horror&amp;page=3&amp;search=alien"`)
	assert.Contains(t, body, `href="/?genre=Horror&amp;search=alien"`)
}

func TestIndex_InvalidPage(t *testing.T) {
	srv := newTestServer(t, &fakeService{})

	resp, _ := get(t, srv.URL+"/?page=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIndex_UpstreamError(t *testing.T) {
	svc := &fakeService{moviesErr: &movieapi.APIError{StatusCode: http.StatusInternalServerError, Message: "Internal Server Error"}}
	srv := newTestServer(t, svc)

	resp, body := get(t, srv.URL+"/?search=alien")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Oops! Something went wrong")
	assert.Contains(t, body, "The movie service responded with 500")
	assert.Contains(t, body, `href="/?search=alien"`)
	assert.NotContains(t, body, "No results for this category")
}

func TestIndex_NamedFilter(t *testing.T) {
	manager := filter.NewManager()
	require.NoError(t, manager.RegisterFilter("classics", "Year < 1980"))

	srv := newTestServer(t, &fakeService{}, WithFilters(manager))

	resp, body := get(t, srv.URL+"/?filter=classics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h3>Alien</h3>")
	assert.NotContains(t, body, "<h3>Aliens</h3>")
	assert.Contains(t, body, `<option value="classics" selected>`)

	resp, _ = get(t, srv.URL+"/?filter=missing")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovie_CachesDetail(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(t, svc)

	for range 3 {
		resp, body := get(t, srv.URL+"/movies/42")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var detail movieDetail
		require.NoError(t, json.Unmarshal([]byte(body), &detail))
		assert.Equal(t, movieapi.FlexString("42"), detail.Movie.ID)
		assert.Equal(t, "1h 57m", detail.Runtime)
		assert.Equal(t, []string{"Horror", "Science Fiction"}, detail.Genres)
	}

	assert.Equal(t, int32(1), svc.detailCalls.Load())
}

func TestMovie_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "not found",
			err:    fmt.Errorf("wrapped: %w", &movieapi.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}),
			status: http.StatusNotFound,
		},
		{
			name:   "upstream failure",
			err:    &movieapi.APIError{StatusCode: http.StatusBadGateway, Message: "Bad Gateway"},
			status: http.StatusBadGateway,
		},
		{
			name:   "auth failure",
			err:    &movieapi.AuthError{Message: "boom"},
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeService{detailErr: tt.err})

			resp, body := get(t, srv.URL+"/movies/7")
			assert.Equal(t, tt.status, resp.StatusCode)

			var payload errorEnvelope
			require.NoError(t, json.Unmarshal([]byte(body), &payload))
			assert.NotEmpty(t, payload.Message)
			assert.NotEmpty(t, payload.RequestID)
		})
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeService{})
	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"upstream":"ok"`)

	srv = newTestServer(t, &fakeService{healthErr: errors.New("down")})
	resp, _ = get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeService{})
	resp, body := get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "The requested resource not found")
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "1", &movieapi.Movie{ID: "1", Title: "Heat"}))
	require.NoError(t, cache.Set(ctx, "2", nil))

	m, ok, err := cache.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Heat", m.Title)

	_, ok, _ = cache.Get(ctx, "2")
	assert.False(t, ok)
}
