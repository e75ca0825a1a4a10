package tui

import "github.com/s0up4200/reelsearch/tmdb"

// debounceMsg fires when the settle period of an input change elapsed
type debounceMsg struct {
	seq uint64
}

// resultMsg carries the outcome of a dispatched search
type resultMsg struct {
	seq    uint64
	result *tmdb.SearchResult
	err    error
}
