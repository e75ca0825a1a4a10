package tmdb

import (
	"strings"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage is the locale used for localized fields when none is given
	DefaultLanguage = "es-ES"
)

// SearchQuery describes a single movie search request
type SearchQuery struct {
	Text     string
	Page     int
	Language string
}

// normalize trims the text and fills in page and language defaults
func (q SearchQuery) normalize(defaultLanguage string) SearchQuery {
	q.Text = strings.TrimSpace(q.Text)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Language == "" {
		q.Language = defaultLanguage
	}
	return q
}

// IsEmpty reports whether the query has no searchable text
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// SearchResult is one page of movie search results
type SearchResult struct {
	Page         int
	TotalPages   int
	TotalResults int
	Items        []MovieSummary
}

// EmptyResult returns the result reported for queries that are never sent
func EmptyResult() SearchResult {
	return SearchResult{
		Page:  1,
		Items: []MovieSummary{},
	}
}

// MovieSummary is the subset of a TMDB movie used for listing.
// PosterPath and ReleaseDate are empty when TMDB does not provide them.
type MovieSummary struct {
	ID          int
	Title       string
	Overview    string
	PosterPath  string
	ReleaseDate string
}

// HasPoster reports whether the movie has a poster image
func (m MovieSummary) HasPoster() bool {
	return m.PosterPath != ""
}

// searchResponse mirrors the /search/movie response body
type searchResponse struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
	Results      []movieDTO `json:"results"`
}

type movieDTO struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate *string `json:"release_date"`
}

// toResult reshapes the wire response, keeping the remote order
func (r searchResponse) toResult() *SearchResult {
	result := &SearchResult{
		Page:         r.Page,
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
		Items:        make([]MovieSummary, 0, len(r.Results)),
	}

	for _, m := range r.Results {
		result.Items = append(result.Items, MovieSummary{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			PosterPath:  deref(m.PosterPath),
			ReleaseDate: deref(m.ReleaseDate),
		})
	}

	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// authenticationResponse mirrors the /authentication response body
type authenticationResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
