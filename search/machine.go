package search

import (
	"strings"
	"unicode/utf8"

	"github.com/s0up4200/reelsearch/tmdb"
)

// DefaultMinQueryLength is the shortest trimmed input that triggers a search
const DefaultMinQueryLength = 2

// Debounce asks the driver to deliver DebounceElapsed(Seq) after the settle delay
type Debounce struct {
	Seq   uint64
	Query string
}

// Request asks the driver to run a search and deliver Completed(Seq, ...)
type Request struct {
	Seq   uint64
	Query string
}

// Machine is the search screen state machine.
// It is not safe for concurrent use; drivers serialize events.
type Machine struct {
	minLength int
	messages  Messages

	// seq counts input changes; issued is the seq of the request whose
	// result is still wanted, 0 when none.
	seq         uint64
	issued      uint64
	issuedQuery string
	pending     string
	state       State
	closed      bool
}

// NewMachine creates a machine in the Idle state.
// minLength < 1 uses DefaultMinQueryLength.
func NewMachine(minLength int, messages Messages) *Machine {
	if minLength < 1 {
		minLength = DefaultMinQueryLength
	}
	return &Machine{
		minLength: minLength,
		messages:  messages,
		state:     idleState(),
	}
}

// State returns the current presentation state
func (m *Machine) State() State {
	return m.state
}

// Seq returns the sequence number of the latest input change
func (m *Machine) Seq() uint64 {
	return m.seq
}

// Messages returns the catalogue used for failures
func (m *Machine) Messages() Messages {
	return m.messages
}

// TextChanged handles new input and supersedes the pending timer. Short input
// settles immediately to an empty result with no query and also drops any
// request in flight; otherwise the returned Debounce must be scheduled by the
// driver while an earlier request keeps running.
func (m *Machine) TextChanged(text string) (Debounce, bool) {
	if m.closed {
		return Debounce{}, false
	}

	m.seq++
	query := strings.TrimSpace(text)

	if utf8.RuneCountInString(query) < m.minLength {
		m.pending = ""
		m.issued = 0
		m.issuedQuery = ""
		m.state = loadedState("", tmdb.EmptyResult())
		return Debounce{}, false
	}

	m.pending = query
	return Debounce{Seq: m.seq, Query: query}, true
}

// DebounceElapsed handles a fired timer. Timers from superseded input are ignored.
// The returned request replaces any request still in flight.
func (m *Machine) DebounceElapsed(seq uint64) (Request, bool) {
	if m.closed || seq != m.seq || m.pending == "" {
		return Request{}, false
	}

	m.issued = seq
	m.issuedQuery = m.pending
	m.pending = ""
	m.state = loadingState(m.issuedQuery)
	return Request{Seq: seq, Query: m.issuedQuery}, true
}

// Completed handles a finished request and reports whether it was applied.
// Only the latest issued request is applied, even when newer input is still
// waiting for its timer.
func (m *Machine) Completed(seq uint64, result *tmdb.SearchResult, err error) bool {
	if m.closed || m.issued == 0 || seq != m.issued {
		return false
	}

	query := m.issuedQuery
	m.issued = 0
	m.issuedQuery = ""

	if err != nil {
		m.state = failedState(query, NewFailure(err, m.messages))
		return true
	}

	if result == nil {
		m.state = loadedState(query, tmdb.EmptyResult())
		return true
	}

	m.state = loadedState(query, *result)
	return true
}

// Close tears the machine down; later events are no-ops
func (m *Machine) Close() {
	m.closed = true
	m.pending = ""
}

// Closed reports whether Close was called
func (m *Machine) Closed() bool {
	return m.closed
}
