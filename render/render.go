// Package render derives display fields from search results and formats them for the console.
package render

import (
	"strconv"
	"time"

	"github.com/s0up4200/reelsearch/tmdb"
)

// YearPlaceholder is shown when a movie has no usable release date
const YearPlaceholder = "—"

// Row holds the display fields of one movie in a result list
type Row struct {
	ID        int
	Title     string
	PosterURL string
	Year      string
	Overview  string
}

// NewRow derives the display fields for a movie
func NewRow(movie tmdb.MovieSummary, size tmdb.ImageSize) Row {
	return Row{
		ID:        movie.ID,
		Title:     movie.Title,
		PosterURL: tmdb.BuildImageURL(movie.PosterPath, size),
		Year:      ReleaseYear(movie.ReleaseDate),
		Overview:  movie.Overview,
	}
}

// Rows derives display rows for every movie, keeping their order
func Rows(movies []tmdb.MovieSummary, size tmdb.ImageSize) []Row {
	rows := make([]Row, 0, len(movies))
	for _, movie := range movies {
		rows = append(rows, NewRow(movie, size))
	}
	return rows
}

// ReleaseYear extracts the year from an ISO release date, or returns YearPlaceholder
func ReleaseYear(date string) string {
	if year, ok := ParseYear(date); ok {
		return strconv.Itoa(year)
	}
	return YearPlaceholder
}

// ParseYear extracts the year from an ISO date ("2006-01-02") or a bare year
func ParseYear(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	if t, err := time.Parse(time.DateOnly, date); err == nil && t.Year() > 0 {
		return t.Year(), true
	}
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil && year > 0 {
			return year, true
		}
	}
	return 0, false
}

// Truncate shortens s to at most max runes, adding an ellipsis when cut
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
