package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E2E8F0")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	busyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#718096"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5E0")).
			Background(lipgloss.Color("#2D3748")).Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#718096")).MarginTop(1)
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2D3748")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E2E8F0")).Bold(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	bulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)
