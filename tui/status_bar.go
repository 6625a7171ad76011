// ABOUTME: Implements a single-line status bar for the bottom of the TUI.
// ABOUTME: Shows the watched file, state and edge counts, view toggles, and the last reload time.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/2389-research/automatizer/viewer"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays viewer status in a single line.
type StatusBarModel struct {
	path       string
	states     int
	edges      int
	opts       viewer.Options
	lastReload time.Time
	failing    bool
	width      int
}

// NewStatusBarModel creates a status bar for the given file path.
func NewStatusBarModel(path string) StatusBarModel {
	return StatusBarModel{path: path}
}

// SetCounts updates the state and edge counts.
func (m *StatusBarModel) SetCounts(states, edges int) {
	m.states = states
	m.edges = edges
}

// SetOptions updates the toggles shown.
func (m *StatusBarModel) SetOptions(opts viewer.Options) {
	m.opts = opts
}

// MarkReload records a reload attempt and whether it failed.
func (m *StatusBarModel) MarkReload(at time.Time, failed bool) {
	m.lastReload = at
	m.failing = failed
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

func toggle(key, name string, on bool) string {
	if on {
		return ToggleOnStyle.Render("[" + key + "]" + name)
	}
	return ToggleOffStyle.Render("[" + key + "]" + name)
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	reload := "never"
	if !m.lastReload.IsZero() {
		reload = m.lastReload.Format("15:04:05")
	}
	if m.failing {
		reload += " (error, showing previous)"
	}

	toggles := strings.Join([]string{
		toggle("m", "inimize", m.opts.Minimize),
		toggle("s", "treaming", m.opts.Streaming),
		toggle("x", " regexp", m.opts.ShowRegexp),
	}, " ")

	content := fmt.Sprintf("%s | %d states, %d edges | %s | reloaded %s",
		filepath.Base(m.path), m.states, m.edges, toggles, reload)

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, StatusBarStyle.Width(m.width).Render(content))
}
