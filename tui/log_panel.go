// ABOUTME: Implements a scrollable activity log panel using the bubbles viewport component.
// ABOUTME: Records reloads, option changes, exports, and errors with color-coded levels.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LogLevel classifies a log entry.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogSuccess
	LogError
)

// LogEntry is one line in the activity log.
type LogEntry struct {
	Time  time.Time
	Level LogLevel
	Text  string
}

// LogPanelModel is a scrollable activity log.
type LogPanelModel struct {
	entries  []LogEntry
	max      int
	viewport viewport.Model
	focused  bool
	width    int
	height   int
}

// NewLogPanelModel creates a new log panel with a maximum number of entries.
// If maxEntries is <= 0, it defaults to 200.
func NewLogPanelModel(maxEntries int) LogPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return LogPanelModel{
		entries:  make([]LogEntry, 0, maxEntries),
		max:      maxEntries,
		viewport: viewport.New(80, 10),
	}
}

// Append adds an entry, evicting the oldest one at capacity.
func (m *LogPanelModel) Append(level LogLevel, text string) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, LogEntry{Time: time.Now(), Level: level, Text: text})
	m.syncViewport()
}

// Len returns the number of entries in the log.
func (m LogPanelModel) Len() int {
	return len(m.entries)
}

// Last returns the newest entry, if any.
func (m LogPanelModel) Last() (LogEntry, bool) {
	if len(m.entries) == 0 {
		return LogEntry{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// SetFocused sets whether this panel accepts scroll keys.
func (m *LogPanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m LogPanelModel) IsFocused() bool {
	return m.focused
}

// SetSize sets the available dimensions and updates the viewport.
func (m *LogPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// Update forwards scroll keys to the viewport.
func (m LogPanelModel) Update(msg tea.Msg) (LogPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the log panel.
func (m LogPanelModel) View() string {
	style := BorderStyle
	if m.focused {
		style = FocusedBorderStyle
	}

	content := "No activity yet"
	if len(m.entries) > 0 {
		content = m.viewport.View()
	}

	return style.
		Width(max(m.width-2, 1)).
		Height(max(m.height-2, 1)).
		Render(TitleStyle.Render("ACTIVITY") + "\n" + content)
}

// syncViewport rebuilds the viewport content from entries and scrolls to the bottom.
func (m *LogPanelModel) syncViewport() {
	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = formatEntry(e)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry formats a single entry as a log line.
func formatEntry(e LogEntry) string {
	return LogTimestampStyle.Render(e.Time.Format("15:04:05")) + " " + StyleForLevel(e.Level).Render(e.Text)
}
