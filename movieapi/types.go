package movieapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString decodes a JSON string or number into a string.
// The service is inconsistent about ids and ratings.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*s = FlexString(num.String())
	return nil
}

// String returns the plain string value
func (s FlexString) String() string {
	return string(s)
}

// GenreList decodes either ["Drama", ...] or [{"title": "Drama"}, ...].
// Objects may carry the name under "title" or "name".
type GenreList []string

// UnmarshalJSON accepts an array of strings, an array of objects, or null
func (g *GenreList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	if raw == nil {
		*g = nil
		return nil
	}

	genres := make(GenreList, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || bytes.Equal(item, []byte("null")) {
			continue
		}

		if item[0] == '"' {
			var name string
			if err := json.Unmarshal(item, &name); err != nil {
				return fmt.Errorf("genres: %w", err)
			}
			genres = append(genres, name)
			continue
		}

		var obj struct {
			Title string     `json:"title"`
			Name  string     `json:"name"`
			ID    FlexString `json:"id"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("genres: %w", err)
		}
		switch {
		case obj.Title != "":
			genres = append(genres, obj.Title)
		case obj.Name != "":
			genres = append(genres, obj.Name)
		case obj.ID != "":
			genres = append(genres, obj.ID.String())
		}
	}

	*g = genres
	return nil
}

// Movie is a catalog entry. Only ID and Title are guaranteed; the remaining
// fields come in several historical spellings and any of them may be absent.
type Movie struct {
	ID       FlexString `json:"id"`
	Title    string     `json:"title"`
	Overview string     `json:"overview,omitempty"`

	PosterURL    string `json:"posterUrl,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
	BackdropPath string `json:"backdrop_path,omitempty"`

	ReleaseDate       string `json:"releaseDate,omitempty"`
	DatePublished     string `json:"datePublished,omitempty"`
	LegacyReleaseDate string `json:"release_date,omitempty"`

	Rating      FlexString `json:"rating,omitempty"`
	RatingValue float64    `json:"ratingValue,omitempty"`
	VoteAverage float64    `json:"vote_average,omitempty"`
	VoteCount   int        `json:"vote_count,omitempty"`

	Genres   GenreList `json:"genres,omitempty"`
	GenreIDs []int     `json:"genre_ids,omitempty"`

	Runtime  int    `json:"runtime,omitempty"`
	Duration string `json:"duration,omitempty"`

	Popularity       float64 `json:"popularity,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
}

// Merge overlays the non-empty fields of detail on top of m and returns the
// result. Neither input is modified.
func (m Movie) Merge(detail Movie) Movie {
	merged := m

	if detail.ID != "" {
		merged.ID = detail.ID
	}
	if detail.Title != "" {
		merged.Title = detail.Title
	}
	if detail.Overview != "" {
		merged.Overview = detail.Overview
	}
	if detail.PosterURL != "" {
		merged.PosterURL = detail.PosterURL
	}
	if detail.PosterPath != "" {
		merged.PosterPath = detail.PosterPath
	}
	if detail.BackdropPath != "" {
		merged.BackdropPath = detail.BackdropPath
	}
	if detail.ReleaseDate != "" {
		merged.ReleaseDate = detail.ReleaseDate
	}
	if detail.DatePublished != "" {
		merged.DatePublished = detail.DatePublished
	}
	if detail.LegacyReleaseDate != "" {
		merged.LegacyReleaseDate = detail.LegacyReleaseDate
	}
	if detail.Rating != "" {
		merged.Rating = detail.Rating
	}
	if detail.RatingValue != 0 {
		merged.RatingValue = detail.RatingValue
	}
	if detail.VoteAverage != 0 {
		merged.VoteAverage = detail.VoteAverage
	}
	if detail.VoteCount != 0 {
		merged.VoteCount = detail.VoteCount
	}
	if len(detail.Genres) > 0 {
		merged.Genres = append(GenreList(nil), detail.Genres...)
	}
	if len(detail.GenreIDs) > 0 {
		merged.GenreIDs = append([]int(nil), detail.GenreIDs...)
	}
	if detail.Runtime != 0 {
		merged.Runtime = detail.Runtime
	}
	if detail.Duration != "" {
		merged.Duration = detail.Duration
	}
	if detail.Popularity != 0 {
		merged.Popularity = detail.Popularity
	}
	if detail.OriginalLanguage != "" {
		merged.OriginalLanguage = detail.OriginalLanguage
	}
	if detail.Adult {
		merged.Adult = true
	}

	return merged
}

// PaginationInfo describes one page of a listing.
//
// Total is an estimate: the service only reports TotalPages for the requested
// limit, so Total is TotalPages*Limit. Two different limits over the same data
// can yield different totals.
type PaginationInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether a page after the current one exists
func (p PaginationInfo) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrevious reports whether a page before the current one exists
func (p PaginationInfo) HasPrevious() bool {
	return p.Page > 1
}

// MoviesQuery holds the parameters of a movie listing request
type MoviesQuery struct {
	Page   int
	Limit  int
	Search string
	Genre  string
}

// MoviesResponse is the normalized listing response
type MoviesResponse struct {
	Data       []Movie        `json:"data"`
	TotalPages int            `json:"totalPages"`
	Pagination PaginationInfo `json:"pagination"`
}

// rawMoviesResponse is what the service actually sends for /movies
type rawMoviesResponse struct {
	Data       []Movie `json:"data"`
	TotalPages int     `json:"totalPages"`
}

// Genre is an entry of the static genre table
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreStats is returned by /movies/genres/{id}
type GenreStats struct {
	ID            FlexString `json:"id"`
	Name          string     `json:"name"`
	MovieCount    int        `json:"movieCount"`
	AverageRating float64    `json:"averageRating"`
}

// MovieTitle is a lightweight id/title pair
type MovieTitle struct {
	ID    FlexString `json:"id"`
	Title string     `json:"title"`
}

// TitlesResponse is returned by /movies/titles
type TitlesResponse struct {
	Data       []MovieTitle   `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// GenresMoviesResponse is returned by /genres/movies; Data maps a genre name
// to the ids of its movies
type GenresMoviesResponse struct {
	Data       map[string][]FlexString `json:"data"`
	Pagination PaginationInfo          `json:"pagination"`
}

// Health is returned by /healthcheck
type Health struct {
	Status string `json:"status"`
}

// tokenResponse is returned by /auth/token
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// ParseRating converts a rating string to a float, returning false when the
// value is empty or not numeric
func ParseRating(s FlexString) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
