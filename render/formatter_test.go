package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
)

func TestFormatResults(t *testing.T) {
	f := NewConsoleFormatter(tmdb.ImageSizeW185, search.EnglishMessages)

	out := f.FormatResults("bat", []tmdb.MovieSummary{
		{ID: 1, Title: "Batman", Overview: "Gotham.", PosterPath: "/a.jpg", ReleaseDate: "1989-06-23"},
		{ID: 2, Title: "The Batman", ReleaseDate: ""},
	}, 72)

	assert.Contains(t, out, `"bat": 2 of 72 results`)
	assert.Contains(t, out, "├── Batman (1989)")
	assert.Contains(t, out, "Poster: https://image.tmdb.org/t/p/w185/a.jpg")
	assert.Contains(t, out, "Gotham.")
	assert.Contains(t, out, "╰── The Batman (—)")
	assert.Less(t, strings.Index(out, "Batman (1989)"), strings.Index(out, "The Batman"))
}

func TestFormatResultsEmpty(t *testing.T) {
	f := NewConsoleFormatter(tmdb.ImageSizeW185, search.SpanishMessages)
	assert.Contains(t, f.FormatResults("zzz", nil, 0), search.SpanishMessages.NoResults)
}

func TestFormatResultsHidesDetails(t *testing.T) {
	f := NewConsoleFormatter(tmdb.ImageSizeW185, search.EnglishMessages)
	f.ShowOverview = false
	f.ShowPosters = false

	out := f.FormatResults("bat", []tmdb.MovieSummary{
		{ID: 1, Title: "Batman", Overview: "Gotham.", PosterPath: "/a.jpg"},
	}, 1)

	assert.Contains(t, out, "1 of 1 result\n")
	assert.NotContains(t, out, "Poster:")
	assert.NotContains(t, out, "Gotham.")
}

func TestFormatState(t *testing.T) {
	f := NewConsoleFormatter(tmdb.ImageSizeW185, search.EnglishMessages)

	assert.Empty(t, f.FormatState(search.State{Phase: search.PhaseIdle}))
	assert.Empty(t, f.FormatState(search.State{Phase: search.PhaseLoaded}))
	assert.Equal(t, "Searching… \"bat\"\n", f.FormatState(search.State{Phase: search.PhaseLoading, Query: "bat"}))

	failed := search.NewFailure(&tmdb.APIError{StatusCode: 401}, search.EnglishMessages)
	assert.Equal(t, "✗ "+search.EnglishMessages.Auth+"\n", f.FormatState(search.State{Phase: search.PhaseFailed, Failure: &failed}))
	assert.Equal(t, "✗ "+search.EnglishMessages.Generic+"\n", f.FormatState(search.State{Phase: search.PhaseFailed}))

	loaded := search.State{
		Phase: search.PhaseLoaded,
		Query: "heat",
		Result: tmdb.SearchResult{
			Page: 1, TotalResults: 1,
			Items: []tmdb.MovieSummary{{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15"}},
		},
	}
	assert.Contains(t, f.FormatState(loaded), "╰── Heat (1995)")

}
