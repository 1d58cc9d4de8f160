package movieapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public movie service
const DefaultBaseURL = "https://0kadddxyh3.execute-api.us-east-1.amazonaws.com"

// Default paging values used when a query leaves them unset
const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// Client represents a movie API client. Each Client owns its own token cache,
// so independent clients never share credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a new movie API client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrInvalidConfig, baseURL, err)
	}

	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "reelgrid",
		logger:    logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.tokens == nil {
		client.tokens = &tokenCache{client: client}
	}

	return client, nil
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token, fetching and caching it on first use
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Token(ctx)
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setCommonHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Str("request_id", req.Header.Get("X-Request-Id")).
		Msg("Making movie API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Movie API request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to read movie API response")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp, body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("endpoint", endpoint).
			Msg("Movie API returned an error")
		return nil, apiErr
	}

	return body, nil
}

// getJSON performs an authenticated GET and decodes the response into out
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func pageParams(page, limit int) url.Values {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// GetMovies retrieves one page of movies and normalizes the pagination.
// The service only reports totalPages, so Pagination.Total is synthesized as
// TotalPages*Limit.
func (c *Client) GetMovies(ctx context.Context, q MoviesQuery) (*MoviesResponse, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	params := pageParams(q.Page, q.Limit)
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Genre != "" {
		params.Set("genre", q.Genre)
	}

	var raw rawMoviesResponse
	if err := c.getJSON(ctx, "/movies", params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	resp := &MoviesResponse{
		Data:       raw.Data,
		TotalPages: raw.TotalPages,
		Pagination: PaginationInfo{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      raw.TotalPages * q.Limit,
			TotalPages: raw.TotalPages,
		},
	}
	if resp.Data == nil {
		resp.Data = []Movie{}
	}

	c.logger.Debug().
		Int("page", q.Page).
		Int("limit", q.Limit).
		Int("count", len(resp.Data)).
		Int("total_pages", raw.TotalPages).
		Msg("Retrieved movies")

	return resp, nil
}

// GetMovieByID retrieves the full record of a single movie
func (c *Client) GetMovieByID(ctx context.Context, id string) (*Movie, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}

	var movie Movie
	if err := c.getJSON(ctx, "/movies/"+url.PathEscape(id), nil, &movie); err != nil {
		return nil, fmt.Errorf("failed to get movie %s: %w", id, err)
	}
	return &movie, nil
}

// GetMovieTitles retrieves a page of id/title pairs
func (c *Client) GetMovieTitles(ctx context.Context, page, limit int) (*TitlesResponse, error) {
	var resp TitlesResponse
	if err := c.getJSON(ctx, "/movies/titles", pageParams(page, limit), &resp); err != nil {
		return nil, fmt.Errorf("failed to get movie titles: %w", err)
	}
	return &resp, nil
}

// GetGenresMovies retrieves movie ids grouped by genre name
func (c *Client) GetGenresMovies(ctx context.Context, page, limit int) (*GenresMoviesResponse, error) {
	var resp GenresMoviesResponse
	if err := c.getJSON(ctx, "/genres/movies", pageParams(page, limit), &resp); err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	return &resp, nil
}

// GetGenreStats retrieves statistics for one genre
func (c *Client) GetGenreStats(ctx context.Context, id string) (*GenreStats, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("genre id is required")
	}

	var stats GenreStats
	if err := c.getJSON(ctx, "/movies/genres/"+url.PathEscape(id), nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get genre %s stats: %w", id, err)
	}
	return &stats, nil
}

// HealthCheck queries the unauthenticated health endpoint
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthcheck", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Health check failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to read health check response")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Msg("Health check returned an error")
		return nil, newAPIError(resp, body)
	}

	var health Health
	if err := json.Unmarshal(body, &health); err != nil {
		c.logger.Error().Err(err).Msg("Failed to parse health check response")
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &health, nil
}
