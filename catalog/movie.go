package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/s0up4200/reelgrid/movieapi"
)

// PosterBaseURL prefixes legacy poster paths
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006",
}

// PosterURL returns the poster image for a movie, or "" when there is none
func PosterURL(m movieapi.Movie) string {
	if m.PosterURL != "" {
		return m.PosterURL
	}
	if m.PosterPath != "" {
		return PosterBaseURL + m.PosterPath
	}
	return ""
}

// ReleaseDate returns the first populated release date field
func ReleaseDate(m movieapi.Movie) string {
	switch {
	case m.ReleaseDate != "":
		return m.ReleaseDate
	case m.DatePublished != "":
		return m.DatePublished
	default:
		return m.LegacyReleaseDate
	}
}

// Year extracts the release year, 0 when unknown
func Year(m movieapi.Movie) int {
	s := strings.TrimSpace(ReleaseDate(m))
	if t, ok := parseDate(s); ok {
		return t.Year()
	}
	if len(s) >= 4 {
		if y, err := strconv.Atoi(s[:4]); err == nil {
			return y
		}
	}
	return 0
}

// Released returns the parsed release date, the zero time when unknown
func Released(m movieapi.Movie) time.Time {
	t, _ := parseDate(strings.TrimSpace(ReleaseDate(m)))
	return t
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RatingLabel returns the badge text for a movie's rating, "" when unrated
func RatingLabel(m movieapi.Movie) string {
	switch {
	case m.Rating != "":
		return m.Rating.String()
	case m.RatingValue != 0:
		return strconv.FormatFloat(m.RatingValue, 'f', 1, 64)
	case m.VoteAverage != 0:
		return strconv.FormatFloat(m.VoteAverage, 'f', 1, 64)
	}
	return ""
}

// RatingScore returns the numeric rating used for filtering and sorting
func RatingScore(m movieapi.Movie) float64 {
	if f, ok := movieapi.ParseRating(m.Rating); ok {
		return f
	}
	if m.RatingValue != 0 {
		return m.RatingValue
	}
	return m.VoteAverage
}

// GenreNames returns up to limit genre names. Named genres take precedence
// over genre ids. A limit of 0 or less returns all of them.
func GenreNames(m movieapi.Movie, limit int) []string {
	var names []string
	switch {
	case m.Genres != nil:
		names = append(names, m.Genres...)
	case m.GenreIDs != nil:
		names = make([]string, 0, len(m.GenreIDs))
		for _, id := range m.GenreIDs {
			names = append(names, movieapi.GenreName(id))
		}
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// ParseDuration parses an ISO 8601 duration such as PT2H30M. ok is false
// for empty, malformed or zero durations.
func ParseDuration(s string) (hours, minutes int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	match := durationPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, 0, false
	}
	if match[1] != "" {
		hours, _ = strconv.Atoi(match[1])
	}
	if match[2] != "" {
		minutes, _ = strconv.Atoi(match[2])
	}
	if hours == 0 && minutes == 0 {
		return 0, 0, false
	}
	return hours, minutes, true
}

// FormatRuntime renders a runtime in minutes
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// RuntimeLabel prefers the ISO duration and falls back to runtime minutes.
// It returns "" when neither is present.
func RuntimeLabel(m movieapi.Movie) string {
	if h, mins, ok := ParseDuration(m.Duration); ok {
		if h > 0 {
			return fmt.Sprintf("%dh %dm", h, mins)
		}
		return fmt.Sprintf("%dm", mins)
	}
	if m.Runtime > 0 {
		return FormatRuntime(m.Runtime)
	}
	return ""
}

// RuntimeMinutes returns the runtime in minutes from either source
func RuntimeMinutes(m movieapi.Movie) int {
	if h, mins, ok := ParseDuration(m.Duration); ok {
		return h*60 + mins
	}
	return m.Runtime
}

// Truncate shortens text to at most n runes and appends an ellipsis
func Truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
