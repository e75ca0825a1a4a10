package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	TMDBTeal  = lipgloss.Color("#01B4E4")
	TMDBGreen = lipgloss.Color("#90CEA1")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Bold(true)

	MatchStyle = lipgloss.NewStyle().
			Foreground(TMDBGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal)

	CursorStyle = lipgloss.NewStyle().
			Foreground(TMDBGreen)
)
