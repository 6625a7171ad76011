// ABOUTME: Scrollable transition table using the bubbles viewport component.
// ABOUTME: Lists every edge of the render model as "from --label--> to", epsilon edges dimmed.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/automatizer/render"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// TablePanelModel shows the transitions of the current model.
type TablePanelModel struct {
	edges    []render.Edge
	viewport viewport.Model
	focused  bool
	width    int
	height   int
}

// NewTablePanelModel creates an empty transition table.
func NewTablePanelModel() TablePanelModel {
	return TablePanelModel{viewport: viewport.New(80, 10)}
}

// SetModel replaces the listed edges and scrolls to the top.
func (m *TablePanelModel) SetModel(model render.Model) {
	m.edges = model.Edges
	m.viewport.SetContent(strings.Join(m.Lines(), "\n"))
	m.viewport.GotoTop()
}

// Len returns the number of listed edges.
func (m TablePanelModel) Len() int {
	return len(m.edges)
}

// SetFocused sets whether this panel accepts scroll keys.
func (m *TablePanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m TablePanelModel) IsFocused() bool {
	return m.focused
}

// SetSize sets the available dimensions and updates the viewport.
func (m *TablePanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border (2 lines top/bottom) and title (1 line)
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
}

// Update forwards scroll keys to the viewport.
func (m TablePanelModel) Update(msg tea.Msg) (TablePanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Lines returns the unstyled table rows.
func (m TablePanelModel) Lines() []string {
	lines := make([]string, len(m.edges))
	for i, e := range m.edges {
		lines[i] = formatEdge(e)
	}
	return lines
}

func formatEdge(e render.Edge) string {
	if e.Epsilon {
		return EpsilonStyle.Render(fmt.Sprintf("%4s ··%s··> %s", e.From.Label, e.Label, e.To.Label))
	}
	return fmt.Sprintf("%4s --%s--> %s", e.From.Label, EdgeLabelStyle.Render(e.Label), e.To.Label)
}

// View renders the table panel.
func (m TablePanelModel) View() string {
	title := fmt.Sprintf("TRANSITIONS (%d)", len(m.edges))
	style := BorderStyle
	if m.focused {
		style = FocusedBorderStyle
	}

	content := "No transitions"
	if len(m.edges) > 0 {
		content = m.viewport.View()
	}

	return style.
		Width(max(m.width-2, 1)).
		Height(max(m.height-2, 1)).
		Render(TitleStyle.Render(title) + "\n" + content)
}
