// Package filter refines a page of movies with expr-lang expressions.
//
// Expressions see one movie at a time through these variables:
//
//	ID, Title, Overview, Language  string
//	Year, Runtime, VoteCount       int
//	Rating, Popularity             float64
//	Released                       time.Time
//	Genres                         []string
//	RatingLabel                    string
//	Adult, HasPoster               bool
//
// and these helpers: hasGenre, containsFold, hasPrefixFold, hasSuffixFold,
// lower, upper, daysSince, yearsAgo, parseDate, now. The Fold helpers ignore
// case; the built-in contains, startsWith and endsWith operators do not.
//
// Example:
//
//	Rating >= 7 and hasGenre("Drama") and Year > 1990
package filter
