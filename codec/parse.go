// ABOUTME: Converts DOT automaton text into an Automaton plus its pending epsilon edges.
// ABOUTME: Handles the initial sentinel node, doublecircle accept marking, and edge label grammar.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/dot"
)

// Sentinel is the node name whose outgoing edge marks the initial state.
// It is matched case-insensitively and never becomes a state.
const Sentinel = "initial"

// AcceptShape is the node shape that marks an accepting state.
const AcceptShape = "doublecircle"

// Result is a parsed automaton. Epsilons are the unlabeled edges, left for an
// epsilon-folding builder. Names maps each state back to its DOT node name.
type Result struct {
	Automaton *automaton.Automaton
	Epsilons  []automaton.StatePair
	Names     map[automaton.StateID]string
}

// IsSentinel reports whether a node name is the initial-state sentinel.
func IsSentinel(name string) bool {
	return strings.EqualFold(name, Sentinel)
}

// IsAcceptShape reports whether a shape attribute marks an accepting state.
func IsAcceptShape(shape string) bool {
	return strings.EqualFold(shape, AcceptShape)
}

// Parse converts DOT text into an automaton. States are created lazily for
// every node that appears on an edge; nodes only declared on their own are
// ignored. Accept flags are applied each time an edge mentions a node. The
// returned automaton has already been renumbered.
func Parse(text string) (*Result, error) {
	g, err := dot.Parse(text)
	if err != nil {
		return nil, syntaxError(err)
	}

	b := automaton.NewBuilder()
	ids := make(map[string]automaton.StateID)
	names := make(map[automaton.StateID]string)
	stateFor := func(name string) automaton.StateID {
		id, ok := ids[name]
		if !ok {
			id = b.AddState()
			ids[name] = id
			names[id] = name
		}
		b.SetAccept(id, IsAcceptShape(g.FindNode(name).Attr("shape")))
		return id
	}

	var (
		initial     automaton.StateID
		initialSeen []int
		epsilons    []automaton.StatePair
	)

	for _, e := range g.Edges {
		if IsSentinel(e.To) {
			return nil, &automaton.ParseError{
				Kind: automaton.KindMalformedGraphSyntax,
				Line: e.Line,
				Msg:  fmt.Sprintf("edge %s -> %s points into the %q sentinel", e.From, e.To, Sentinel),
			}
		}

		if IsSentinel(e.From) {
			initial = stateFor(e.To)
			initialSeen = append(initialSeen, e.Line)
			continue
		}

		from := stateFor(e.From)
		to := stateFor(e.To)

		text, _ := e.Attr("label")
		label, err := automaton.ParseLabel(text)
		if err != nil {
			var pe *automaton.ParseError
			if errors.As(err, &pe) {
				pe.Line = e.Line
				pe.Msg = fmt.Sprintf("edge %s -> %s: %s", e.From, e.To, pe.Msg)
			}
			return nil, err
		}

		if label.Kind == automaton.LabelEpsilon {
			epsilons = append(epsilons, automaton.StatePair{From: from, To: to})
			continue
		}
		for _, r := range label.Ranges() {
			b.AddTransition(from, r.Min, r.Max, to)
		}
	}

	if len(initialSeen) != 1 {
		pe := &automaton.ParseError{Kind: automaton.KindMissingOrAmbiguousInitialState}
		if len(initialSeen) == 0 {
			pe.Msg = fmt.Sprintf("no edge leaves the %q node", Sentinel)
		} else {
			pe.Line = initialSeen[1]
			pe.Msg = fmt.Sprintf("%d edges leave the %q node, want exactly one", len(initialSeen), Sentinel)
		}
		return nil, pe
	}

	a, err := b.Build(initial)
	if err != nil {
		return nil, &automaton.ParseError{Kind: automaton.KindMissingOrAmbiguousInitialState, Msg: err.Error(), Err: err}
	}
	automaton.Renumber(a)

	return &Result{Automaton: a, Epsilons: epsilons, Names: names}, nil
}

// syntaxError classifies a dot front-end failure.
func syntaxError(err error) error {
	pe := &automaton.ParseError{Kind: automaton.KindMalformedGraphSyntax, Err: err}
	if errors.Is(err, dot.ErrMultipleGraphs) {
		pe.Kind = automaton.KindMultipleGraphs
	}
	var se *dot.SyntaxError
	if errors.As(err, &se) {
		pe.Line, pe.Col, pe.Msg = se.Line, se.Col, se.Msg
	}
	return pe
}
