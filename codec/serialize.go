// ABOUTME: Converts an Automaton back into DOT text that Parse accepts.
// ABOUTME: Nodes are named by display number; transitions become labeled edges in sorted order.
package codec

import (
	"strconv"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/dot"
)

// GraphName is the digraph name written by Serialize.
const GraphName = "Automaton"

// Serialize renders a as DOT text. Parse(Serialize(a)) yields an automaton
// equivalent to a.
func Serialize(a *automaton.Automaton) string {
	return dot.Serialize(Graph(a, nil))
}

// SerializeWithEpsilons renders a together with pending epsilon edges, which
// are written as edges with an empty label.
func SerializeWithEpsilons(a *automaton.Automaton, epsilons []automaton.StatePair) string {
	return dot.Serialize(Graph(a, epsilons))
}

// NodeNames assigns a DOT node name to every state: its display number, or
// s<ID> when an unreachable state shares a number with an earlier one.
// Reachable states are named first so they always keep their numbers.
func NodeNames(a *automaton.Automaton) (map[automaton.StateID]string, []automaton.StateID) {
	order := a.Reachable()
	seen := make(map[automaton.StateID]bool, a.Len())
	for _, id := range order {
		seen[id] = true
	}
	for _, id := range a.States() {
		if !seen[id] {
			order = append(order, id)
		}
	}

	names := make(map[automaton.StateID]string, len(order))
	taken := make(map[string]bool, len(order))
	for _, id := range order {
		name := strconv.Itoa(a.Number(id))
		if taken[name] {
			name = "s" + strconv.Itoa(int(id))
		}
		taken[name] = true
		names[id] = name
	}
	return names, order
}

// Graph builds the DOT graph for a without serializing it.
func Graph(a *automaton.Automaton, epsilons []automaton.StatePair) *dot.Graph {
	g := dot.NewGraph(GraphName)
	g.Attrs["rankdir"] = "LR"

	names, order := NodeNames(a)
	for _, id := range order {
		shape := "circle"
		if a.IsAccept(id) {
			shape = AcceptShape
		}
		g.AddNode(&dot.Node{ID: names[id], Attrs: map[string]string{"shape": shape}})
	}

	g.AddNode(&dot.Node{ID: Sentinel, Attrs: map[string]string{"shape": "plaintext", "label": ""}})
	g.AddEdge(&dot.Edge{From: Sentinel, To: names[a.Initial()]})

	for _, id := range order {
		for _, t := range a.SortedTransitions(id) {
			g.AddEdge(&dot.Edge{
				From:  names[id],
				To:    names[t.To],
				Attrs: map[string]string{"label": automaton.FormatRange(t.Min, t.Max)},
			})
		}
	}
	for _, p := range epsilons {
		g.AddEdge(&dot.Edge{From: names[p.From], To: names[p.To], Attrs: map[string]string{"label": ""}})
	}

	g.AssignEdgeIDs()
	return g
}
