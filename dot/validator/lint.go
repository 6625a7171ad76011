// ABOUTME: Lint rules for automaton DOT graphs: initial edge, sentinel misuse, labels, shapes, and reachability.
// ABOUTME: Provides Lint(g) returning diagnostics and LintSource(text) for raw DOT input.
package validator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/codec"
	"github.com/2389-research/automatizer/dot"
)

// Severities used in diagnostics.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// validShapes is the set of node shapes an automaton drawing may use.
var validShapes = map[string]bool{
	"circle":       true,
	"doublecircle": true,
	"plaintext":    true,
	"plain":        true,
	"point":        true,
	"none":         true,
	"ellipse":      true,
	"oval":         true,
}

// validRankdirs is the set of valid rankdir attribute values.
var validRankdirs = map[string]bool{
	"LR": true,
	"TB": true,
	"RL": true,
	"BT": true,
}

// Lint runs all lint rules on the graph and returns any diagnostics found.
// Error diagnostics mean codec.Parse would reject the graph.
func Lint(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic

	diags = append(diags, checkInitialEdge(g)...)
	diags = append(diags, checkSentinelIncoming(g)...)
	diags = append(diags, checkLabels(g)...)
	diags = append(diags, checkShapes(g)...)
	diags = append(diags, checkRankdir(g)...)
	diags = append(diags, checkIsolated(g)...)
	diags = append(diags, checkReachability(g)...)
	diags = append(diags, checkDeadEnds(g)...)
	diags = append(diags, checkAccepting(g)...)
	diags = append(diags, checkDuplicateEdges(g)...)

	return diags
}

// LintSource parses DOT text and lints it. Syntax failures are returned as a
// single error diagnostic with rule "syntax".
func LintSource(text string) []dot.Diagnostic {
	g, err := dot.Parse(text)
	if err != nil {
		return []dot.Diagnostic{{
			Severity: SeverityError,
			Message:  err.Error(),
			Rule:     "syntax",
		}}
	}
	return Lint(g)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []dot.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// initialEdges returns the edges leaving the sentinel node.
func initialEdges(g *dot.Graph) []*dot.Edge {
	var out []*dot.Edge
	for _, e := range g.Edges {
		if codec.IsSentinel(e.From) {
			out = append(out, e)
		}
	}
	return out
}

// stateNames returns every non-sentinel node mentioned by an edge, sorted.
func stateNames(g *dot.Graph) []string {
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		for _, id := range []string{e.From, e.To} {
			if !codec.IsSentinel(id) {
				seen[id] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for id := range seen {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// checkInitialEdge verifies exactly one edge leaves the sentinel.
func checkInitialEdge(g *dot.Graph) []dot.Diagnostic {
	edges := initialEdges(g)
	switch len(edges) {
	case 1:
		return nil
	case 0:
		return []dot.Diagnostic{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("graph has no edge leaving %q", codec.Sentinel),
			Rule:     "initial_edge",
		}}
	default:
		targets := make([]string, len(edges))
		for i, e := range edges {
			targets[i] = e.To
		}
		return []dot.Diagnostic{{
			Severity: SeverityError,
			Message:  fmt.Sprintf("graph has %d edges leaving %q, expected exactly 1: %v", len(edges), codec.Sentinel, targets),
			EdgeID:   edges[1].ID,
			Rule:     "initial_edge",
		}}
	}
}

// checkSentinelIncoming flags edges pointing into the sentinel.
func checkSentinelIncoming(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, e := range g.Edges {
		if codec.IsSentinel(e.To) {
			diags = append(diags, dot.Diagnostic{
				Severity: SeverityError,
				Message:  fmt.Sprintf("edge %s -> %s points into the %q sentinel", e.From, e.To, codec.Sentinel),
				EdgeID:   e.ID,
				Rule:     "sentinel_incoming",
			})
		}
	}
	return diags
}

// checkLabels validates every transition label, reporting the error kind.
func checkLabels(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, e := range g.Edges {
		if codec.IsSentinel(e.From) || codec.IsSentinel(e.To) {
			continue
		}
		text, _ := e.Attr("label")
		label, err := automaton.ParseLabel(text)
		if err != nil {
			rule := "edge_label"
			var pe *automaton.ParseError
			if errors.As(err, &pe) && pe.Kind == automaton.KindInvalidEscape {
				rule = "escape"
			}
			diags = append(diags, dot.Diagnostic{
				Severity: SeverityError,
				Message:  fmt.Sprintf("edge %s -> %s: %v", e.From, e.To, err),
				EdgeID:   e.ID,
				Rule:     rule,
			})
			continue
		}
		if label.Kind == automaton.LabelEpsilon {
			diags = append(diags, dot.Diagnostic{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("edge %s -> %s is an epsilon transition", e.From, e.To),
				EdgeID:   e.ID,
				Rule:     "epsilon",
			})
		}
	}
	return diags
}

// checkShapes flags shapes that are neither state shapes nor sentinel shapes.
func checkShapes(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, id := range g.NodeIDs() {
		shape := g.FindNode(id).Attr("shape")
		if shape == "" || validShapes[shape] || codec.IsAcceptShape(shape) {
			continue
		}
		diags = append(diags, dot.Diagnostic{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("node %q has unknown shape %q", id, shape),
			NodeID:   id,
			Rule:     "valid_shape",
		})
	}
	return diags
}

// checkRankdir validates the rankdir graph attribute if present.
func checkRankdir(g *dot.Graph) []dot.Diagnostic {
	rankdir, ok := g.Attrs["rankdir"]
	if !ok || validRankdirs[rankdir] {
		return nil
	}
	return []dot.Diagnostic{{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("graph rankdir %q is not one of LR, TB, RL, BT", rankdir),
		Rule:     "valid_rankdir",
	}}
}

// checkIsolated notes declared nodes no edge mentions; the parser ignores them.
func checkIsolated(g *dot.Graph) []dot.Diagnostic {
	mentioned := make(map[string]bool)
	for _, e := range g.Edges {
		mentioned[e.From] = true
		mentioned[e.To] = true
	}
	var diags []dot.Diagnostic
	for _, id := range g.NodeIDs() {
		if mentioned[id] || codec.IsSentinel(id) {
			continue
		}
		diags = append(diags, dot.Diagnostic{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("node %q is not on any edge and will be ignored", id),
			NodeID:   id,
			Rule:     "isolated_node",
		})
	}
	return diags
}

// checkReachability walks from the initial state and flags states it never reaches.
func checkReachability(g *dot.Graph) []dot.Diagnostic {
	edges := initialEdges(g)
	if len(edges) != 1 {
		return nil
	}
	start := edges[0].To

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.OutgoingEdges(current) {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	var diags []dot.Diagnostic
	for _, id := range stateNames(g) {
		if !visited[id] {
			diags = append(diags, dot.Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("state %q is not reachable from initial state %q", id, start),
				NodeID:   id,
				Rule:     "reachability",
			})
		}
	}
	return diags
}

// checkDeadEnds flags non-accepting states with no outgoing edges.
func checkDeadEnds(g *dot.Graph) []dot.Diagnostic {
	var diags []dot.Diagnostic
	for _, id := range stateNames(g) {
		if codec.IsAcceptShape(g.FindNode(id).Attr("shape")) {
			continue
		}
		if len(g.OutgoingEdges(id)) == 0 {
			diags = append(diags, dot.Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("non-accepting state %q has no outgoing edges (dead end)", id),
				NodeID:   id,
				Rule:     "dead_end",
			})
		}
	}
	return diags
}

// checkAccepting warns when no state is accepting, so the language is empty.
func checkAccepting(g *dot.Graph) []dot.Diagnostic {
	names := stateNames(g)
	if len(names) == 0 {
		return nil
	}
	for _, id := range names {
		if codec.IsAcceptShape(g.FindNode(id).Attr("shape")) {
			return nil
		}
	}
	return []dot.Diagnostic{{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("no state has shape=%s; the automaton accepts nothing", codec.AcceptShape),
		Rule:     "accepting_state",
	}}
}

// checkDuplicateEdges flags repeated edges with the same endpoints and label.
func checkDuplicateEdges(g *dot.Graph) []dot.Diagnostic {
	seen := make(map[string]bool)
	var diags []dot.Diagnostic
	for _, e := range g.Edges {
		label, _ := e.Attr("label")
		key := e.StableID() + "\x00" + label
		if seen[key] {
			diags = append(diags, dot.Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("duplicate edge %s -> %s with label %q", e.From, e.To, label),
				EdgeID:   e.ID,
				Rule:     "duplicate_edge",
			})
		}
		seen[key] = true
	}
	return diags
}
