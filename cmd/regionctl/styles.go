package main

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	allocatedColor = lipgloss.Color("#7D56F4")
	freeColor      = lipgloss.Color("#04B575")
	mixedColor     = lipgloss.Color("#FFA500")
	mutedColor     = lipgloss.Color("#666666")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(allocatedColor)

	allocatedStyle = lipgloss.NewStyle().Foreground(allocatedColor)
	freeStyle      = lipgloss.NewStyle().Foreground(freeColor)
	mixedStyle     = lipgloss.NewStyle().Foreground(mixedColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(mutedColor)

	barStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

// style returns s, or an unstyled copy when colour is disabled.
func style(s lipgloss.Style) lipgloss.Style {
	if noColor {
		return lipgloss.NewStyle()
	}
	return s
}
