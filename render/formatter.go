package render

import (
	"fmt"
	"strings"

	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
)

// ConsoleFormatter provides console output formatting for search results
type ConsoleFormatter struct {
	ImageSize     tmdb.ImageSize
	ShowOverview  bool
	ShowPosters   bool
	OverviewWidth int
	Messages      search.Messages
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(size tmdb.ImageSize, messages search.Messages) *ConsoleFormatter {
	return &ConsoleFormatter{
		ImageSize:     size,
		ShowOverview:  true,
		ShowPosters:   true,
		OverviewWidth: 160,
		Messages:      messages,
	}
}

// FormatResults formats one page of results for console display
func (f *ConsoleFormatter) FormatResults(query string, movies []tmdb.MovieSummary, totalResults int) string {
	if len(movies) == 0 {
		return fmt.Sprintf("\n%q: %s\n", query, f.Messages.NoResults)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%q: %d of %d result", query, len(movies), totalResults)
	if totalResults != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n\n")

	rows := Rows(movies, f.ImageSize)
	for i, row := range rows {
		isLast := i == len(rows)-1
		f.formatRow(&sb, row, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	return sb.String()
}

func (f *ConsoleFormatter) formatRow(sb *strings.Builder, row Row, isLast bool) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s (%s)\n", prefix, row.Title, row.Year)

	if f.ShowPosters && row.PosterURL != "" {
		fmt.Fprintf(sb, "%sPoster: %s\n", indent, row.PosterURL)
	}
	if f.ShowOverview && row.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, Truncate(row.Overview, f.OverviewWidth))
	}
}

// FormatState formats a presentation state as a single block of text
func (f *ConsoleFormatter) FormatState(state search.State) string {
	switch state.Phase {
	case search.PhaseLoading:
		return fmt.Sprintf("%s %q\n", f.Messages.Searching, state.Query)
	case search.PhaseFailed:
		message := f.Messages.Generic
		if state.Failure != nil {
			message = state.Failure.Message
		}
		return fmt.Sprintf("✗ %s\n", message)
	case search.PhaseLoaded:
		if state.Query == "" {
			return ""
		}
		return f.FormatResults(state.Query, state.Items(), state.Result.TotalResults)
	default:
		return ""
	}
}
