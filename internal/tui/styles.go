// Package tui implements the interactive interview interface.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A"))

	stageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196F3"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f2f2f2"))

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6dae0")).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935"))

	helpStyle = lipgloss.NewStyle().
			Faint(true)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3850")).
			Padding(0, 1)
)
