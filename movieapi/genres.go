package movieapi

import (
	"slices"
)

// UnknownGenre is returned for ids missing from the genre table
const UnknownGenre = "Unknown"

// genreTable maps the legacy numeric genre ids to names
var genreTable = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreName resolves a genre id, returning UnknownGenre for ids not in the table
func GenreName(id int) string {
	if name, ok := genreTable[id]; ok {
		return name
	}
	return UnknownGenre
}

// AllGenres returns every known genre ordered by name
func AllGenres() []Genre {
	genres := make([]Genre, 0, len(genreTable))
	for id, name := range genreTable {
		genres = append(genres, Genre{ID: id, Name: name})
	}
	slices.SortFunc(genres, func(a, b Genre) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return genres
}

// ExtractGenres collects the sorted, de-duplicated genre names used by movies.
// Legacy genre ids are resolved through the table and unknown ids are skipped.
func ExtractGenres(movies []Movie) []string {
	seen := make(map[string]struct{})
	for _, movie := range movies {
		for _, name := range movie.Genres {
			if name != "" {
				seen[name] = struct{}{}
			}
		}
		for _, id := range movie.GenreIDs {
			if name := GenreName(id); name != UnknownGenre {
				seen[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
