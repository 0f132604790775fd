package tmdb

import "regexp"

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie — единый нормализованный вид записи о фильме. И discover, и details
// приводятся к нему на границе клиента: дальше по коду никаких «иногда объект,
// иногда словарь».
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Runtime     int     `json:"runtime"`
	GenreIDs    []int64 `json:"genre_ids"`
	Popularity  float64 `json:"popularity"`
}

var yearRe = regexp.MustCompile(`^\d{4}`)

// ReleaseYear — первые 4 цифры ISO-даты релиза, либо "N/A".
func (m Movie) ReleaseYear() string {
	if y := yearRe.FindString(m.ReleaseDate); y != "" {
		return y
	}
	return "N/A"
}

func (m Movie) HasGenre(id int64) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

type DiscoverParams struct {
	GenreID     int64  // 0 — без фильтра по жанру
	ReleaseFrom string // "YYYY-MM-DD"
	ReleaseTo   string
	RuntimeGTE  *int
	RuntimeLTE  *int
	SortBy      string // popularity.desc | vote_average.desc
	Page        int
}
