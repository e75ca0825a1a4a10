package tmdb

import (
	"context"
)

// Searcher defines the movie search operation consumed by the search orchestrator
type Searcher interface {
	// Search runs a free-text movie search. Empty queries return an empty
	// result without touching the network.
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

var _ Searcher = (*Client)(nil)
