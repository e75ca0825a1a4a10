// Package tui implements the interactive explore screen: a search box that
// queries TMDB as the user types and lists the matching movies.
//
// The screen drives search.Machine on bubbletea's event loop. Debounce
// timers are tea.Tick commands and requests are tea.Cmd functions, so
// superseded ticks and responses simply arrive with an outdated sequence
// number and are dropped by the machine.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
)

// Config holds the settings of the explore screen
type Config struct {
	Delay          time.Duration
	Language       string
	MinQueryLength int
	ImageSize      tmdb.ImageSize
	Messages       search.Messages
}

// Model is the bubbletea model of the explore screen
type Model struct {
	searcher  tmdb.Searcher
	machine   *search.Machine
	logger    zerolog.Logger
	delay     time.Duration
	language  string
	imageSize tmdb.ImageSize

	ctx    context.Context
	cancel context.CancelFunc

	input   textinput.Model
	spinner spinner.Model
	keys    KeyMap

	cursor int
	width  int
	height int
}

// New creates the explore screen model
func New(searcher tmdb.Searcher, logger zerolog.Logger, cfg Config) Model {
	if cfg.Delay <= 0 {
		cfg.Delay = search.DefaultDelay
	}
	if cfg.MinQueryLength < 1 {
		cfg.MinQueryLength = search.DefaultMinQueryLength
	}
	if cfg.Messages == (search.Messages{}) {
		cfg.Messages = search.MessagesFor(cfg.Language)
	}

	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "🔍 "
	ti.PromptStyle = CursorStyle
	ti.PlaceholderStyle = DimStyle
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		searcher:  searcher,
		machine:   search.NewMachine(cfg.MinQueryLength, cfg.Messages),
		logger:    logger.With().Str("component", "tui").Logger(),
		delay:     cfg.Delay,
		language:  cfg.Language,
		imageSize: cfg.ImageSize,
		ctx:       ctx,
		cancel:    cancel,
		input:     ti,
		spinner:   sp,
		keys:      DefaultKeyMap(),
	}
}

// State returns the current search state
func (m Model) State() search.State {
	return m.machine.State()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Clear):
			m.input.SetValue("")
			changed := m.textChanged()
			return m, changed

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.machine.State().Items())-1 {
				m.cursor++
			}
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		changed := m.textChanged()
		return m, tea.Batch(cmd, changed)

	case debounceMsg:
		request, ok := m.machine.DebounceElapsed(msg.seq)
		if !ok {
			return m, nil
		}
		m.logger.Debug().Uint64("seq", request.Seq).Str("query", request.Query).Msg("Dispatching search")
		return m, tea.Batch(m.searchCmd(request), m.spinner.Tick)

	case resultMsg:
		if !m.machine.Completed(msg.seq, msg.result, msg.err) {
			m.logger.Debug().Uint64("seq", msg.seq).Msg("Discarding stale search response")
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("Search failed")
		}
		m.cursor = 0
		return m, nil

	case spinner.TickMsg:
		if !m.machine.State().IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// textChanged feeds the current input into the machine and schedules the
// debounce tick when a search is due
func (m *Model) textChanged() tea.Cmd {
	m.cursor = 0
	debounce, ok := m.machine.TextChanged(m.input.Value())
	if !ok {
		return nil
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: debounce.Seq}
	})
}

// searchCmd runs a dispatched request
func (m Model) searchCmd(request search.Request) tea.Cmd {
	ctx := m.ctx
	searcher := m.searcher
	language := m.language
	return func() tea.Msg {
		result, err := searcher.Search(ctx, tmdb.SearchQuery{
			Text:     request.Query,
			Page:     1,
			Language: language,
		})
		return resultMsg{seq: request.Seq, result: result, err: err}
	}
}

func (m *Model) close() {
	m.machine.Close()
	m.cancel()
}

// Run starts the explore screen and blocks until the user quits
func Run(ctx context.Context, searcher tmdb.Searcher, logger zerolog.Logger, cfg Config) error {
	model := New(searcher, logger, cfg)
	defer model.close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
