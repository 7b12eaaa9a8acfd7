package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C8102E"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1B5E20"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	bannerStyle   = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1B5E20")).
			Padding(0, 2)
)
