package movieapi

import (
	"context"
)

// API defines the movie service operations used by the catalog
type API interface {
	// GetMovies retrieves one normalized page of movies
	GetMovies(ctx context.Context, q MoviesQuery) (*MoviesResponse, error)

	// GetMovieByID retrieves the full record of a single movie
	GetMovieByID(ctx context.Context, id string) (*Movie, error)
}

// Browser extends API with the secondary listing endpoints
type Browser interface {
	API

	GetMovieTitles(ctx context.Context, page, limit int) (*TitlesResponse, error)
	GetGenresMovies(ctx context.Context, page, limit int) (*GenresMoviesResponse, error)
	GetGenreStats(ctx context.Context, id string) (*GenreStats, error)
	HealthCheck(ctx context.Context) (*Health, error)
}

var _ Browser = (*Client)(nil)
