// ABOUTME: Bubble Tea sub-model that lays out automaton states by BFS level from the initial state.
// ABOUTME: Initial states get an arrow, accepting states double parentheses; unreachable states go last.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/render"
)

// GraphPanelModel displays the states of the current render model.
type GraphPanelModel struct {
	model render.Model
	empty bool
	width int
}

// NewGraphPanelModel creates an empty graph panel.
func NewGraphPanelModel() GraphPanelModel {
	return GraphPanelModel{empty: true}
}

// SetModel replaces the displayed model.
func (m *GraphPanelModel) SetModel(model render.Model) {
	m.model = model
	m.empty = false
}

// SetWidth sets the available width for rendering.
func (m *GraphPanelModel) SetWidth(w int) {
	m.width = w
}

// View renders the graph panel as a string.
func (m GraphPanelModel) View() string {
	var content string
	if m.empty {
		content = TitleStyle.Render("STATES") + "\nNo automaton loaded"
	} else {
		content = m.renderLevels()
	}
	if m.width > 0 {
		return BorderStyle.Width(m.width - 2).Render(content)
	}
	return BorderStyle.Render(content)
}

// renderLevels renders one line per BFS level, then the unreachable states.
func (m GraphPanelModel) renderLevels() string {
	var b strings.Builder
	accepting := 0
	for _, n := range m.model.Nodes {
		if n.Accept {
			accepting++
		}
	}
	b.WriteString(TitleStyle.Render(fmt.Sprintf("STATES (%d, %d accepting)", len(m.model.Nodes), accepting)))

	levels, rest := m.Levels()
	for i, level := range levels {
		b.WriteString(fmt.Sprintf("\n%2d  ", i))
		b.WriteString(joinMarkers(level))
	}
	if len(rest) > 0 {
		b.WriteString("\n --  ")
		b.WriteString(joinMarkers(rest))
	}
	return b.String()
}

func joinMarkers(nodes []render.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = StyleForNode(n).Render(Marker(n))
	}
	return strings.Join(parts, " ")
}

// Marker is the plain-text marker for a state: (n) for a plain state,
// ((n)) for an accepting one, prefixed with an arrow for the initial state.
func Marker(n render.Node) string {
	s := "(" + n.Label + ")"
	if n.Accept {
		s = "(" + s + ")"
	}
	if n.Initial {
		s = "→" + s
	}
	return s
}

// Levels groups nodes by BFS distance from the initial state, following
// edges in model order. Nodes the walk never reaches are returned separately.
func (m GraphPanelModel) Levels() ([][]render.Node, []render.Node) {
	initial, ok := m.model.Initial()
	if !ok {
		return nil, m.model.Nodes
	}

	out := make(map[automaton.StateID][]render.Node)
	for _, e := range m.model.Edges {
		out[e.From.ID] = append(out[e.From.ID], e.To)
	}

	seen := map[automaton.StateID]bool{initial.ID: true}
	var levels [][]render.Node
	frontier := []render.Node{initial}
	for len(frontier) > 0 {
		levels = append(levels, frontier)
		var next []render.Node
		for _, n := range frontier {
			for _, to := range out[n.ID] {
				if !seen[to.ID] {
					seen[to.ID] = true
					next = append(next, to)
				}
			}
		}
		frontier = next
	}

	var rest []render.Node
	for _, n := range m.model.Nodes {
		if !seen[n.ID] {
			rest = append(rest, n)
		}
	}
	return levels, rest
}
