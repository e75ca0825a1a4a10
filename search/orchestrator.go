package search

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelsearch/tmdb"
)

// DefaultDelay is the settle delay between the last keystroke and the search
const DefaultDelay = 400 * time.Millisecond

// Listener receives every state transition in order.
// It runs with the orchestrator locked and must not call back into it.
type Listener func(State)

// timerFunc schedules f after d and returns a function that cancels it
type timerFunc func(d time.Duration, f func()) (stop func() bool)

func realTimer(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDelay sets the debounce settle delay.
func WithDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.delay = delay
		}
	}
}

// WithLanguage sets the locale sent with every search.
func WithLanguage(language string) Option {
	return func(o *Orchestrator) {
		o.language = language
	}
}

// WithMinQueryLength sets the shortest trimmed input that triggers a search.
func WithMinQueryLength(n int) Option {
	return func(o *Orchestrator) {
		o.minLength = n
	}
}

// WithMessages overrides the failure message catalogue.
func WithMessages(messages Messages) Option {
	return func(o *Orchestrator) {
		o.messages = &messages
	}
}

// WithListener registers the state listener.
func WithListener(listener Listener) Option {
	return func(o *Orchestrator) {
		o.listener = listener
	}
}

// Orchestrator debounces input and runs searches against a tmdb.Searcher.
// Transitions are serialized; a stale response never overwrites newer state.
type Orchestrator struct {
	searcher tmdb.Searcher
	logger   zerolog.Logger

	delay     time.Duration
	language  string
	minLength int
	messages  *Messages
	listener  Listener
	after     timerFunc

	mu        sync.Mutex
	machine   *Machine
	stopTimer func() bool
	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
}

// NewOrchestrator creates an orchestrator in the Idle state
func NewOrchestrator(searcher tmdb.Searcher, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		searcher:  searcher,
		logger:    logger,
		delay:     DefaultDelay,
		language:  tmdb.DefaultLanguage,
		minLength: DefaultMinQueryLength,
		after:     realTimer,
	}
	for _, opt := range opts {
		opt(o)
	}

	messages := MessagesFor(o.language)
	if o.messages != nil {
		messages = *o.messages
	}

	o.machine = NewMachine(o.minLength, messages)
	o.ctx, o.cancel = context.WithCancel(context.Background())
	return o
}

// State returns the current presentation state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.machine.State()
}

// TextChanged feeds new input, restarting the debounce timer
func (o *Orchestrator) TextChanged(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.machine.Closed() {
		return
	}

	o.stopPendingTimer()

	debounce, ok := o.machine.TextChanged(text)
	if !ok {
		o.logger.Debug().Str("text", text).Msg("Query too short, clearing results")
		o.notify()
		return
	}

	seq := debounce.Seq
	o.stopTimer = o.after(o.delay, func() {
		o.debounceElapsed(seq)
	})
}

func (o *Orchestrator) stopPendingTimer() {
	if o.stopTimer != nil {
		o.stopTimer()
		o.stopTimer = nil
	}
}

func (o *Orchestrator) debounceElapsed(seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	request, ok := o.machine.DebounceElapsed(seq)
	if !ok {
		return
	}
	o.stopTimer = nil
	o.notify()

	o.logger.Debug().
		Uint64("seq", request.Seq).
		Str("query", request.Query).
		Msg("Dispatching search")

	o.inflight.Add(1)
	go o.run(o.ctx, request)
}

func (o *Orchestrator) run(ctx context.Context, request Request) {
	defer o.inflight.Done()

	result, err := o.searcher.Search(ctx, tmdb.SearchQuery{
		Text:     request.Query,
		Page:     1,
		Language: o.language,
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.machine.Completed(request.Seq, result, err) {
		o.logger.Debug().
			Uint64("seq", request.Seq).
			Str("query", request.Query).
			Msg("Discarding superseded search result")
		return
	}

	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("query", request.Query).
			Stringer("category", Classify(err)).
			Msg("Search failed")
	}

	o.notify()
}

// notify sends the current state to the listener
func (o *Orchestrator) notify() {
	if o.listener != nil {
		o.listener(o.machine.State())
	}
}

// Close cancels the pending timer and in-flight requests.
// Results that arrive afterwards are ignored.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.machine.Closed() {
		return
	}
	o.stopPendingTimer()
	o.machine.Close()
	o.cancel()
}

// Wait blocks until every dispatched request has returned
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// Flush fires a pending debounce timer immediately, then waits for every
// dispatched request to return. Used when input ends before the delay elapsed.
func (o *Orchestrator) Flush() {
	o.mu.Lock()
	pending := o.stopTimer != nil
	o.stopPendingTimer()
	seq := o.machine.Seq()
	o.mu.Unlock()

	if pending {
		o.debounceElapsed(seq)
	}
	o.Wait()
}
