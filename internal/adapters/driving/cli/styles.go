package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for search output. The ANSI base
// colours follow the user's terminal scheme.
type Theme struct {
	// Project is the project header colour.
	Project lipgloss.Color

	// Archived marks archived projects.
	Archived lipgloss.Color

	// Match highlights the search term inside snippets.
	Match lipgloss.Color

	// Warning is used when nothing matched.
	Warning lipgloss.Color

	// Summary is the closing totals line.
	Summary lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Project:  lipgloss.Color("2"), // Green
		Archived: lipgloss.Color("1"), // Red
		Match:    lipgloss.Color("1"), // Red
		Warning:  lipgloss.Color("3"), // Yellow
		Summary:  lipgloss.Color("4"), // Blue
	}
}

// Styles contains pre-configured lipgloss styles bound to one renderer.
type Styles struct {
	// Project styles the "name:" header line.
	Project lipgloss.Style

	// Archived styles the " (archived)" marker.
	Archived lipgloss.Style

	// URL styles the link to the matched line.
	URL lipgloss.Style

	// Match styles each occurrence of the search term.
	Match lipgloss.Style

	// NoResults styles the empty-result message.
	NoResults lipgloss.Style

	// Summary styles the totals line.
	Summary lipgloss.Style
}

// NewStyles creates styles for theme rendered by r. Colours are dropped
// automatically when r does not write to a colour terminal.
func NewStyles(r *lipgloss.Renderer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		Project:   r.NewStyle().Bold(true).Foreground(theme.Project),
		Archived:  r.NewStyle().Bold(true).Foreground(theme.Archived),
		URL:       r.NewStyle().Underline(true),
		Match:     r.NewStyle().Foreground(theme.Match),
		NoResults: r.NewStyle().Foreground(theme.Warning),
		Summary:   r.NewStyle().Foreground(theme.Summary),
	}
}
