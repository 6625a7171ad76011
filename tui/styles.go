// ABOUTME: Defines lipgloss styles for the TUI panels, state markers, transition lines, and log levels.
// ABOUTME: Provides StyleForNode and StyleForLevel to map render nodes and log levels to display styles.
package tui

import (
	"github.com/2389-research/automatizer/render"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))
	FocusedBorderStyle = BorderStyle.
				BorderForeground(lipgloss.Color("170"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// State markers
	StateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	InitialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	AcceptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	// Transition lines
	EdgeLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	EpsilonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	// Log levels
	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogInfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	LogSuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	ToggleOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	ToggleOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// Regexp line
	RegexpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// StyleForNode returns the style for a state marker. Accepting wins over initial.
func StyleForNode(n render.Node) lipgloss.Style {
	switch {
	case n.Accept:
		return AcceptStyle
	case n.Initial:
		return InitialStyle
	default:
		return StateStyle
	}
}

// StyleForLevel returns the style for a log level.
func StyleForLevel(level LogLevel) lipgloss.Style {
	switch level {
	case LogError:
		return LogErrorStyle
	case LogSuccess:
		return LogSuccessStyle
	default:
		return LogInfoStyle
	}
}
