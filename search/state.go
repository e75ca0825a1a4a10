package search

import (
	"github.com/s0up4200/reelsearch/tmdb"
)

// Phase identifies which presentation state is active
type Phase int

const (
	// PhaseIdle is the state before any input
	PhaseIdle Phase = iota
	// PhaseLoading means a request is in flight
	PhaseLoading
	// PhaseLoaded means Result holds the latest results
	PhaseLoaded
	// PhaseFailed means Failure describes the latest error
	PhaseFailed
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseLoading:
		return "LOADING"
	case PhaseLoaded:
		return "LOADED"
	case PhaseFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// State is the presentation state of a search screen.
// Only the fields matching Phase are meaningful.
type State struct {
	Phase   Phase
	Query   string
	Result  tmdb.SearchResult
	Failure *Failure
}

// IsLoading reports whether a request is in flight
func (s State) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// Items returns the loaded movies, or nil outside PhaseLoaded
func (s State) Items() []tmdb.MovieSummary {
	if s.Phase != PhaseLoaded {
		return nil
	}
	return s.Result.Items
}

func idleState() State {
	return State{Phase: PhaseIdle}
}

func loadingState(query string) State {
	return State{Phase: PhaseLoading, Query: query}
}

func loadedState(query string, result tmdb.SearchResult) State {
	if result.Items == nil {
		result.Items = []tmdb.MovieSummary{}
	}
	return State{Phase: PhaseLoaded, Query: query, Result: result}
}

func failedState(query string, failure Failure) State {
	return State{Phase: PhaseFailed, Query: query, Failure: &failure}
}
