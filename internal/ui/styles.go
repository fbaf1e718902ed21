package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft teal #2DD4BF): Usernames, highlights
// - Muted (gray): Secondary info, timestamps, ids
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#2DD4BF"

var (
	accentColor = defaultAccent
	codeTheme   = ""

	// Accent style for usernames, channels, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, timestamps, ids
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// ConfigureTheme overrides the accent color from config. Empty keeps
// the default.
func ConfigureTheme(accent string) {
	if accent == "" {
		return
	}
	accentColor = accent
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true)
}

// ConfigureMarkdownCodeTheme sets the Chroma theme for rendered code
// blocks.
func ConfigureMarkdownCodeTheme(theme string) {
	codeTheme = theme
}

// AccentColor returns the configured accent color.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}
