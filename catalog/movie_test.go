package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/reelgrid/movieapi"
)

func TestPosterURL(t *testing.T) {
	tests := []struct {
		name  string
		movie movieapi.Movie
		want  string
	}{
		{"poster url wins", movieapi.Movie{PosterURL: "https://x/p.jpg", PosterPath: "/legacy.jpg"}, "https://x/p.jpg"},
		{"legacy path", movieapi.Movie{PosterPath: "/legacy.jpg"}, PosterBaseURL + "/legacy.jpg"},
		{"none", movieapi.Movie{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PosterURL(tt.movie))
		})
	}
}

func TestYear(t *testing.T) {
	tests := []struct {
		name  string
		movie movieapi.Movie
		want  int
	}{
		{"release date first", movieapi.Movie{ReleaseDate: "1995-12-15", DatePublished: "2001-01-01"}, 1995},
		{"date published", movieapi.Movie{DatePublished: "2001-05-02T00:00:00Z"}, 2001},
		{"legacy", movieapi.Movie{LegacyReleaseDate: "1979-05-25"}, 1979},
		{"year only", movieapi.Movie{ReleaseDate: "1982"}, 1982},
		{"leading digits", movieapi.Movie{ReleaseDate: "1984 (USA)"}, 1984},
		{"garbage", movieapi.Movie{ReleaseDate: "soon"}, 0},
		{"none", movieapi.Movie{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Year(tt.movie))
		})
	}
}

func TestRatingLabel(t *testing.T) {
	tests := []struct {
		name  string
		movie movieapi.Movie
		want  string
	}{
		{"rating as sent", movieapi.Movie{Rating: "PG-13", RatingValue: 8.1}, "PG-13"},
		{"rating value", movieapi.Movie{RatingValue: 8.14, VoteAverage: 5}, "8.1"},
		{"vote average", movieapi.Movie{VoteAverage: 7}, "7.0"},
		{"unrated", movieapi.Movie{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RatingLabel(tt.movie))
		})
	}

	assert.InDelta(t, 7.5, RatingScore(movieapi.Movie{Rating: "7.5"}), 0.001)
	assert.InDelta(t, 6.2, RatingScore(movieapi.Movie{Rating: "PG", VoteAverage: 6.2}), 0.001)
}

func TestGenreNames(t *testing.T) {
	tests := []struct {
		name  string
		movie movieapi.Movie
		limit int
		want  []string
	}{
		{"names first two", movieapi.Movie{Genres: movieapi.GenreList{"Crime", "Drama", "Thriller"}, GenreIDs: []int{28}}, 2, []string{"Crime", "Drama"}},
		{"ids fallback", movieapi.Movie{GenreIDs: []int{28, 1, 18}}, 2, []string{"Action", movieapi.UnknownGenre}},
		{"all", movieapi.Movie{GenreIDs: []int{28, 18, 27}}, 0, []string{"Action", "Drama", "Horror"}},
		{"none", movieapi.Movie{}, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, GenreNames(tt.movie, tt.limit)); diff != "" {
				t.Errorf("GenreNames() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		hours   int
		minutes int
		ok      bool
	}{
		{"PT2H30M", 2, 30, true},
		{"PT42M", 0, 42, true},
		{"PT3H", 3, 0, true},
		{"PT0M", 0, 0, false},
		{"", 0, 0, false},
		{"two hours", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, ok := ParseDuration(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.hours, h)
			assert.Equal(t, tt.minutes, m)
		})
	}
}

func TestRuntimeLabel(t *testing.T) {
	tests := []struct {
		name  string
		movie movieapi.Movie
		want  string
	}{
		{"duration wins", movieapi.Movie{Duration: "PT2H30M", Runtime: 90}, "2h 30m"},
		{"short duration", movieapi.Movie{Duration: "PT45M"}, "45m"},
		{"runtime minutes", movieapi.Movie{Runtime: 150}, "2h 30m"},
		{"short runtime", movieapi.Movie{Runtime: 45}, "45m"},
		{"zero duration falls back", movieapi.Movie{Duration: "PT0M", Runtime: 61}, "1h 1m"},
		{"none", movieapi.Movie{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuntimeLabel(tt.movie))
		})
	}

	assert.Equal(t, "N/A", FormatRuntime(0))
	assert.Equal(t, 150, RuntimeMinutes(movieapi.Movie{Duration: "PT2H30M"}))
	assert.Equal(t, 95, RuntimeMinutes(movieapi.Movie{Runtime: 95}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello...", Truncate("hello world", 6))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "-12,000", FormatCount(-12000))
}
