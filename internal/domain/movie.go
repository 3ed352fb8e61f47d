package domain

import "strings"

// Movie is an item returned by the content provider.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
}

// Year returns the first four characters of the release date, or "N/A".
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return "N/A"
	}
	return m.ReleaseDate[:4]
}

type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type genre struct {
	id   int
	name string
}

var genres = []genre{
	{28, "Action"},
	{12, "Adventure"},
	{16, "Animation"},
	{35, "Comedy"},
	{80, "Crime"},
	{99, "Documentary"},
	{18, "Drama"},
	{10751, "Family"},
	{14, "Fantasy"},
	{36, "History"},
	{27, "Horror"},
	{10402, "Music"},
	{9648, "Mystery"},
	{10749, "Romance"},
	{878, "Science Fiction"},
	{10770, "TV Movie"},
	{53, "Thriller"},
	{10752, "War"},
	{37, "Western"},
}

var (
	genreNames = make(map[int]string, len(genres))
	genreIDs   = make(map[string]int, len(genres))
)

func init() {
	for _, g := range genres {
		genreNames[g.id] = g.name
		genreIDs[strings.ToLower(g.name)] = g.id
	}
}

// GenreName returns the display name for a genre id.
func GenreName(id int) (string, bool) {
	name, ok := genreNames[id]
	return name, ok
}

// GenreID looks up a genre id by case-insensitive name.
func GenreID(name string) (int, bool) {
	id, ok := genreIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// GenreIDs returns every defined genre id in table order.
func GenreIDs() []int {
	ids := make([]int, len(genres))
	for i, g := range genres {
		ids[i] = g.id
	}
	return ids
}

// GenreKeys returns the lower-cased genre names in table order.
func GenreKeys() []string {
	keys := make([]string, len(genres))
	for i, g := range genres {
		keys[i] = strings.ToLower(g.name)
	}
	return keys
}

// GenreNamesFor maps ids to display names, skipping ids outside the table.
func GenreNamesFor(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
