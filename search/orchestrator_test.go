package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelsearch/tmdb"
)

// fakeTimers replaces time.AfterFunc so tests decide when the settle delay elapses
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (ft *fakeTimers) after(d time.Duration, f func()) func() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	timer := &fakeTimer{delay: d, f: f}
	ft.timers = append(ft.timers, timer)

	return func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		if timer.stopped || timer.fired {
			return false
		}
		timer.stopped = true
		return true
	}
}

// fire runs every timer that was neither stopped nor fired and returns how many ran
func (ft *fakeTimers) fire() int {
	ft.mu.Lock()
	var due []*fakeTimer
	for _, timer := range ft.timers {
		if !timer.stopped && !timer.fired {
			timer.fired = true
			due = append(due, timer)
		}
	}
	ft.mu.Unlock()

	for _, timer := range due {
		timer.f()
	}
	return len(due)
}

func (ft *fakeTimers) count() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.timers)
}

// recordingSearcher answers immediately and records every query
type recordingSearcher struct {
	mu      sync.Mutex
	queries []tmdb.SearchQuery
	result  *tmdb.SearchResult
	err     error
}

func (s *recordingSearcher) Search(ctx context.Context, query tmdb.SearchQuery) (*tmdb.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return s.result, s.err
}

func (s *recordingSearcher) calls() []tmdb.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tmdb.SearchQuery(nil), s.queries...)
}

// gatedSearcher blocks every call until the test replies to it
type gatedSearcher struct {
	calls chan gatedCall
}

type gatedCall struct {
	query tmdb.SearchQuery
	reply chan gatedReply
}

type gatedReply struct {
	result *tmdb.SearchResult
	err    error
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{calls: make(chan gatedCall, 8)}
}

func (s *gatedSearcher) Search(ctx context.Context, query tmdb.SearchQuery) (*tmdb.SearchResult, error) {
	call := gatedCall{query: query, reply: make(chan gatedReply, 1)}
	s.calls <- call
	select {
	case r := <-call.reply:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *gatedSearcher) next(t *testing.T) gatedCall {
	t.Helper()
	select {
	case call := <-s.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("expected a search call")
		return gatedCall{}
	}
}

// stateLog collects listener notifications
type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) listen(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s)
}

func (l *stateLog) phases() []Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	phases := make([]Phase, 0, len(l.states))
	for _, s := range l.states {
		phases = append(phases, s.Phase)
	}
	return phases
}

func newTestOrchestrator(searcher tmdb.Searcher, opts ...Option) (*Orchestrator, *fakeTimers) {
	timers := &fakeTimers{}
	o := NewOrchestrator(searcher, zerolog.Nop(), opts...)
	o.after = timers.after
	return o, timers
}

func TestOrchestratorDefaults(t *testing.T) {
	o := NewOrchestrator(&recordingSearcher{}, zerolog.Nop())
	defer o.Close()

	assert.Equal(t, DefaultDelay, o.delay)
	assert.Equal(t, tmdb.DefaultLanguage, o.language)
	assert.Equal(t, SpanishMessages, o.machine.Messages())
	assert.Equal(t, PhaseIdle, o.State().Phase)
}

func TestOrchestratorShortQueryNeverSearches(t *testing.T) {
	searcher := &recordingSearcher{result: movies("x")}
	log := &stateLog{}
	o, timers := newTestOrchestrator(searcher, WithListener(log.listen))
	defer o.Close()

	for _, text := range []string{"", "a", " a ", "   "} {
		o.TextChanged(text)
	}

	assert.Zero(t, timers.count(), "short input must not start a timer")
	assert.Zero(t, timers.fire())
	o.Wait()

	assert.Empty(t, searcher.calls())
	assert.Equal(t, PhaseLoaded, o.State().Phase)
	assert.Empty(t, o.State().Items())
	assert.Equal(t, []Phase{PhaseLoaded, PhaseLoaded, PhaseLoaded, PhaseLoaded}, log.phases())
}

func TestOrchestratorCoalescesRapidInput(t *testing.T) {
	searcher := &recordingSearcher{result: movies("Batman")}
	o, timers := newTestOrchestrator(searcher, WithLanguage("en-US"))
	defer o.Close()

	for _, text := range []string{"ba", "bat", "batm", "batma", "batman"} {
		o.TextChanged(text)
	}

	assert.Equal(t, 5, timers.count())
	assert.Equal(t, 1, timers.fire(), "only the last timer survives")
	o.Wait()

	calls := searcher.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, tmdb.SearchQuery{Text: "batman", Page: 1, Language: "en-US"}, calls[0])
	assert.Equal(t, PhaseLoaded, o.State().Phase)
	assert.Equal(t, "batman", o.State().Query)
}

func TestOrchestratorCoalescesWithRealTimer(t *testing.T) {
	searcher := &recordingSearcher{result: movies("Heat")}
	o := NewOrchestrator(searcher, zerolog.Nop(), WithDelay(50*time.Millisecond))
	defer o.Close()

	o.TextChanged("he")
	o.TextChanged("hea")
	o.TextChanged("heat")

	require.Eventually(t, func() bool {
		return o.State().Phase == PhaseLoaded
	}, 2*time.Second, 10*time.Millisecond)
	o.Wait()

	calls := searcher.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "heat", calls[0].Text)
}

func TestOrchestratorIgnoresStaleResponse(t *testing.T) {
	searcher := newGatedSearcher()
	log := &stateLog{}
	o, timers := newTestOrchestrator(searcher, WithListener(log.listen))
	defer o.Close()

	o.TextChanged("alien")
	timers.fire()
	callA := searcher.next(t)
	assert.Equal(t, "alien", callA.query.Text)

	o.TextChanged("aliens")
	timers.fire()
	callB := searcher.next(t)
	assert.Equal(t, "aliens", callB.query.Text)

	callB.reply <- gatedReply{result: movies("Aliens")}
	require.Eventually(t, func() bool {
		return o.State().Phase == PhaseLoaded
	}, 2*time.Second, 5*time.Millisecond)

	callA.reply <- gatedReply{result: movies("Alien")}
	o.Wait()

	state := o.State()
	assert.Equal(t, "aliens", state.Query)
	require.Len(t, state.Items(), 1)
	assert.Equal(t, "Aliens", state.Items()[0].Title)
	assert.Equal(t, []Phase{PhaseLoading, PhaseLoading, PhaseLoaded}, log.phases())
}

func TestOrchestratorShowsInFlightResultWhileNextInputSettles(t *testing.T) {
	searcher := newGatedSearcher()
	log := &stateLog{}
	o, timers := newTestOrchestrator(searcher, WithListener(log.listen))
	defer o.Close()

	o.TextChanged("alien")
	require.Equal(t, 1, timers.fire())
	callA := searcher.next(t)

	// the next debounce is still pending when the first response arrives
	o.TextChanged("aliens")
	callA.reply <- gatedReply{result: movies("Alien")}
	require.Eventually(t, func() bool {
		return o.State().Phase == PhaseLoaded
	}, 2*time.Second, 5*time.Millisecond)

	state := o.State()
	assert.Equal(t, "alien", state.Query)
	require.Len(t, state.Items(), 1)
	assert.Equal(t, "Alien", state.Items()[0].Title)

	require.Equal(t, 1, timers.fire())
	callB := searcher.next(t)
	assert.Equal(t, "aliens", callB.query.Text)
	callB.reply <- gatedReply{result: movies("Aliens")}
	o.Wait()

	assert.Equal(t, "aliens", o.State().Query)
	assert.Equal(t, []Phase{PhaseLoading, PhaseLoaded, PhaseLoading, PhaseLoaded}, log.phases())
}

func TestOrchestratorFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category Category
		message  string
	}{
		{
			name:     "unauthorized",
			err:      &tmdb.APIError{StatusCode: 401, Message: "Invalid API key"},
			category: CategoryAuth,
			message:  EnglishMessages.Auth,
		},
		{
			name:     "rate limited",
			err:      &tmdb.APIError{StatusCode: 429},
			category: CategoryRateLimit,
			message:  EnglishMessages.RateLimit,
		},
		{
			name:     "network timeout",
			err:      &url.Error{Op: "Get", URL: "https://api.themoviedb.org/3/search/movie", Err: context.DeadlineExceeded},
			category: CategoryTransport,
			message:  EnglishMessages.Generic,
		},
		{
			name:     "server error",
			err:      &tmdb.APIError{StatusCode: 503},
			category: CategoryUnexpected,
			message:  EnglishMessages.Generic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &recordingSearcher{err: tt.err}
			o, timers := newTestOrchestrator(searcher, WithLanguage("en-US"))
			defer o.Close()

			o.TextChanged("batman")
			timers.fire()
			o.Wait()

			state := o.State()
			assert.Equal(t, PhaseFailed, state.Phase)
			require.NotNil(t, state.Failure)
			assert.Equal(t, tt.category, state.Failure.Category)
			assert.Equal(t, tt.message, state.Failure.Message)
			assert.ErrorIs(t, state.Failure, tt.err)
		})
	}
}

func TestOrchestratorCustomMessages(t *testing.T) {
	custom := Messages{Auth: "auth", RateLimit: "slow down", Generic: "oops"}
	searcher := &recordingSearcher{err: errors.New("boom")}
	o, timers := newTestOrchestrator(searcher, WithMessages(custom))
	defer o.Close()

	o.TextChanged("batman")
	timers.fire()
	o.Wait()

	require.NotNil(t, o.State().Failure)
	assert.Equal(t, "oops", o.State().Failure.Message)
}

func TestOrchestratorClose(t *testing.T) {
	t.Run("pending timer", func(t *testing.T) {
		searcher := &recordingSearcher{result: movies("Batman")}
		o, timers := newTestOrchestrator(searcher)

		o.TextChanged("batman")
		o.Close()

		assert.Zero(t, timers.fire(), "close stops the pending timer")
		o.Wait()
		assert.Empty(t, searcher.calls())
	})

	t.Run("in-flight request", func(t *testing.T) {
		searcher := newGatedSearcher()
		log := &stateLog{}
		o, timers := newTestOrchestrator(searcher, WithListener(log.listen))

		o.TextChanged("batman")
		timers.fire()
		searcher.next(t)

		o.Close()
		o.Wait()

		assert.True(t, o.State().IsLoading(), "late completion is a no-op")
		assert.Equal(t, []Phase{PhaseLoading}, log.phases())

		o.TextChanged("robin")
		assert.Zero(t, timers.fire())
	})

	t.Run("close twice", func(t *testing.T) {
		o, _ := newTestOrchestrator(&recordingSearcher{})
		o.Close()
		assert.NotPanics(t, o.Close)
	})
}

func TestOrchestratorEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "bat", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "es-ES", r.URL.Query().Get("language"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"page":          1,
			"total_pages":   1,
			"total_results": 2,
			"results": []map[string]any{
				{"id": 268, "title": "Batman", "overview": "Gotham.", "poster_path": "/a.jpg", "release_date": "1989-06-23"},
				{"id": 414906, "title": "The Batman", "overview": "Riddler.", "poster_path": nil, "release_date": "2022-03-01"},
			},
		})
	}))
	defer server.Close()

	client, err := tmdb.NewClient("secret", zerolog.Nop(), tmdb.WithBaseURL(server.URL))
	require.NoError(t, err)

	o, timers := newTestOrchestrator(client, WithLanguage("es-ES"))
	defer o.Close()

	o.TextChanged("bat")
	require.Equal(t, 1, timers.fire())
	o.Wait()

	state := o.State()
	require.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, 2, state.Result.TotalResults)
	assert.Equal(t, []tmdb.MovieSummary{
		{ID: 268, Title: "Batman", Overview: "Gotham.", PosterPath: "/a.jpg", ReleaseDate: "1989-06-23"},
		{ID: 414906, Title: "The Batman", Overview: "Riddler.", ReleaseDate: "2022-03-01"},
	}, state.Items())
}

func TestOrchestratorFlush(t *testing.T) {
	searcher := &recordingSearcher{result: movies("Batman")}
	log := &stateLog{}
	o, timers := newTestOrchestrator(searcher, WithListener(log.listen))
	defer o.Close()

	o.TextChanged("bat")
	o.TextChanged("batman")
	o.Flush()

	require.Len(t, searcher.calls(), 1)
	assert.Equal(t, "batman", searcher.calls()[0].Text)
	assert.Equal(t, PhaseLoaded, o.State().Phase)
	assert.Equal(t, []Phase{PhaseLoading, PhaseLoaded}, log.phases())

	// The flushed timer was stopped and never fires again
	assert.Zero(t, timers.fire())

	// Nothing pending is a no-op
	o.Flush()
	assert.Len(t, searcher.calls(), 1)
}
