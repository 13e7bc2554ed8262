// Package style defines the lipgloss styles used by the final summary.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	SuccessColor = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "124", Dark: "196"}
	WarningColor = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	PathColor    = lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "243", Dark: "245"}
)

// Base styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(PathColor).
			Italic(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
