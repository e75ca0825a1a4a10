package tui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/s0up4200/reelsearch/render"
	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
)

const (
	defaultVisibleRows = 10
	overviewWidth      = 100
)

// View renders the screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TMDB Explore"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	state := m.machine.State()
	messages := m.machine.Messages()

	switch state.Phase {
	case search.PhaseLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(DimStyle.Render(messages.Searching))
		b.WriteString("\n")

	case search.PhaseFailed:
		b.WriteString(ErrorStyle.Render("✗ " + state.Failure.Message))
		b.WriteString("\n")

	case search.PhaseLoaded:
		items := state.Items()
		if len(items) == 0 {
			if state.Query != "" {
				b.WriteString(DimStyle.Render(messages.NoResults))
				b.WriteString("\n")
			}
			break
		}
		m.renderResults(&b, state.Query, items)
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render(helpLine(m.keys)))
	return b.String()
}

func (m Model) renderResults(b *strings.Builder, query string, items []tmdb.MovieSummary) {
	visible := m.visibleRows()
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(items))

	for i := start; i < end; i++ {
		row := render.NewRow(items[i], m.imageSize)
		selected := i == m.cursor

		if selected {
			b.WriteString(CursorStyle.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(highlightMatches(row.Title, matchIndexes(query, row.Title), selected))
		b.WriteString(" ")
		b.WriteString(DimStyle.Render("(" + row.Year + ")"))
		b.WriteString("\n")

		if selected {
			if row.Overview != "" {
				b.WriteString("    ")
				b.WriteString(NormalItemStyle.Render(render.Truncate(row.Overview, overviewWidth)))
				b.WriteString("\n")
			}
			if row.PosterURL != "" {
				b.WriteString("    ")
				b.WriteString(DimStyle.Render(row.PosterURL))
				b.WriteString("\n")
			}
		}
	}

	if len(items) > end {
		b.WriteString(DimStyle.Render(fmt.Sprintf("  ... and %d more", len(items)-end)))
		b.WriteString("\n")
	}
}

// visibleRows returns how many results fit on screen
func (m Model) visibleRows() int {
	if m.height == 0 {
		return defaultVisibleRows
	}
	// header, input, spacing, the expanded row and help
	return max(m.height-12, 1)
}

// matchIndexes returns the byte offsets of title characters matched by the
// query. Matching ignores case.
func matchIndexes(query, title string) []int {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	matches := fuzzy.Find(query, []string{title})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}

// highlightMatches renders text with matched characters emphasised,
// batching consecutive characters that share a style
func highlightMatches(text string, matchedIndexes []int, selected bool) string {
	base := NormalItemStyle
	if selected {
		base = SelectedItemStyle
	}
	if len(matchedIndexes) == 0 {
		return base.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var out strings.Builder
	var run strings.Builder
	runMatched := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := base
		if runMatched {
			style = MatchStyle
		}
		out.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for i, r := range text {
		matched := matchSet[i]
		if matched != runMatched {
			flush()
			runMatched = matched
		}
		run.WriteRune(r)
	}
	flush()

	return out.String()
}

func helpLine(k KeyMap) string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, binding := range k.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}
