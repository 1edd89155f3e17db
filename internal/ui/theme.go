package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors used across every screen.
type Theme struct {
	Name string

	Text      string
	Muted     string
	Accent    string
	Success   string
	Warning   string
	Danger    string
	Border    string
	Selection string
}

var themes = []Theme{
	{
		Name:      "Shelf Dark",
		Text:      "#f8f8f2",
		Muted:     "#6272a4",
		Accent:    "#bd93f9",
		Success:   "#50fa7b",
		Warning:   "#f1fa8c",
		Danger:    "#ff5555",
		Border:    "#44475a",
		Selection: "#44475a",
	},
	{
		Name:      "Shelf Light",
		Text:      "#2e3440",
		Muted:     "#7b88a1",
		Accent:    "#5e81ac",
		Success:   "#a3be8c",
		Warning:   "#ebcb8b",
		Danger:    "#bf616a",
		Border:    "#d8dee9",
		Selection: "#e5e9f0",
	},
}

// GetTheme returns the named theme, defaulting to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme cycles to the theme after the named one.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Danger   lipgloss.Style
	Selected lipgloss.Style
	Box      lipgloss.Style
	Help     lipgloss.Style
}

// Styles builds the style set for the theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color(t.Selection)).
			Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			MarginTop(1),
	}
}
