// ABOUTME: Display-agnostic projection of an Automaton into render nodes and edges.
// ABOUTME: Nodes carry initial/accept flags and number labels; edges carry formatted character labels.
package render

import (
	"sort"
	"strconv"

	"github.com/2389-research/automatizer/automaton"
)

// Fill colors used for state nodes.
const (
	FillAccept  = "lightgray"
	FillDefault = "white"
)

// Epsilon is the label shown on pending epsilon edges.
const Epsilon = "ε"

// Node is one state in a render model.
type Node struct {
	ID      automaton.StateID `json:"id"`
	Label   string            `json:"label"`
	Initial bool              `json:"initial"`
	Accept  bool              `json:"accept"`
}

// Shape returns the graphviz shape for the node.
func (n Node) Shape() string {
	if n.Accept {
		return "doublecircle"
	}
	return "circle"
}

// FillColor returns the background color for the node.
func (n Node) FillColor() string {
	if n.Accept {
		return FillAccept
	}
	return FillDefault
}

// Edge is one transition (or pending epsilon pair) in a render model.
type Edge struct {
	From    Node   `json:"from"`
	To      Node   `json:"to"`
	Label   string `json:"label"`
	Min     rune   `json:"min"`
	Max     rune   `json:"max"`
	Epsilon bool   `json:"epsilon,omitempty"`
}

// Style returns the graphviz line style for the edge.
func (e Edge) Style() string {
	if e.Epsilon {
		return "dashed"
	}
	return "solid"
}

// Model is the full projection of an automaton, rebuilt on every call.
type Model struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Initial returns the initial node and whether the model has one.
func (m Model) Initial() (Node, bool) {
	for _, n := range m.Nodes {
		if n.Initial {
			return n, true
		}
	}
	return Node{}, false
}

// Project builds the render model of a. Every registered state becomes a node,
// ordered by display number then ID; each state's SortedTransitions become
// edges in that order. Project does not modify a.
func Project(a *automaton.Automaton) Model {
	return ProjectWithEpsilons(a, nil)
}

// ProjectWithEpsilons is Project plus one dashed ε edge per pending pair,
// appended after the regular transitions.
func ProjectWithEpsilons(a *automaton.Automaton, epsilons []automaton.StatePair) Model {
	ids := a.States()
	sort.SliceStable(ids, func(i, j int) bool {
		ni, nj := a.Number(ids[i]), a.Number(ids[j])
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})

	nodes := make(map[automaton.StateID]Node, len(ids))
	m := Model{Nodes: make([]Node, 0, len(ids))}
	for _, id := range ids {
		n := Node{
			ID:      id,
			Label:   strconv.Itoa(a.Number(id)),
			Initial: id == a.Initial(),
			Accept:  a.IsAccept(id),
		}
		nodes[id] = n
		m.Nodes = append(m.Nodes, n)
	}

	for _, id := range ids {
		for _, t := range a.SortedTransitions(id) {
			m.Edges = append(m.Edges, Edge{
				From:  nodes[id],
				To:    nodes[t.To],
				Label: automaton.FormatRange(t.Min, t.Max),
				Min:   t.Min,
				Max:   t.Max,
			})
		}
	}
	for _, p := range epsilons {
		m.Edges = append(m.Edges, Edge{
			From:    nodes[p.From],
			To:      nodes[p.To],
			Label:   Epsilon,
			Epsilon: true,
		})
	}
	return m
}
