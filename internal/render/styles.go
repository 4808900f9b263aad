// Package render turns tracker and catalog state into styled terminal
// output. It is a pure consumer of the progress package's public surface:
// no mutation, no error paths beyond empty output for empty history.
package render

import "charm.land/lipgloss/v2"

// Catppuccin Mocha accents, matching the rest of the toolchain.
var (
	colorPrimary = lipgloss.Color("#89dceb") // Sky
	colorAccent  = lipgloss.Color("#cba6f7") // Mauve
	colorSuccess = lipgloss.Color("#a6e3a1") // Green
	colorWarning = lipgloss.Color("#f9e2af") // Yellow
	colorError   = lipgloss.Color("#f38ba8") // Red
	colorMuted   = lipgloss.Color("#6c7086") // Overlay0
)

var (
	styleHeader = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleCategory = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleLoopID = lipgloss.NewStyle().
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	styleWarnPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWarning).
			Padding(0, 1)
)
