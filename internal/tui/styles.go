package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	fgColor        = lipgloss.Color("#F9FAFB") // Almost white

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	itemStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	// Matched runes inside a candidate
	highlightStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	selectedHighlightStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true).
				Underline(true)

	countStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	// Dialog styles
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accentColor).
			Padding(1, 2).
			Width(60)

	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(errorColor).
				MarginBottom(1)

	dialogTextStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// newHelp returns a help view using the palette above
func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = helpKeyStyle
	h.Styles.ShortDesc = helpStyle
	h.Styles.ShortSeparator = helpStyle
	h.Styles.FullKey = helpKeyStyle
	h.Styles.FullDesc = helpStyle
	h.Styles.FullSeparator = helpStyle
	return h
}
