// ABOUTME: Exports an automaton as a structured YAML document and reads that document back.
// ABOUTME: Uses gopkg.in/yaml.v3; states appear in display order with formatted transition labels.
package export

import (
	"fmt"

	"github.com/2389-research/automatizer/automaton"
	"gopkg.in/yaml.v3"
)

// YamlState is one state in the YAML document.
type YamlState struct {
	ID      int  `yaml:"id"`
	Number  int  `yaml:"number"`
	Initial bool `yaml:"initial,omitempty"`
	Accept  bool `yaml:"accept,omitempty"`
}

// YamlTransition is one transition; Label uses the edge label format.
type YamlTransition struct {
	From  int    `yaml:"from"`
	To    int    `yaml:"to"`
	Label string `yaml:"label"`
}

// YamlEpsilon is one pending epsilon pair.
type YamlEpsilon struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// YamlAutomaton is the top-level YAML representation.
type YamlAutomaton struct {
	Name        string           `yaml:"name"`
	Regexp      string           `yaml:"regexp,omitempty"`
	States      []YamlState      `yaml:"states"`
	Transitions []YamlTransition `yaml:"transitions"`
	Epsilons    []YamlEpsilon    `yaml:"epsilons,omitempty"`
}

// YAML exports the document. States are listed in display order and
// transitions follow each state's sorted transition order.
func YAML(doc Document) (string, error) {
	if doc.Automaton == nil {
		return "", fmt.Errorf("document must have an automaton to export YAML")
	}
	m := doc.model()

	out := YamlAutomaton{
		Name:        doc.title(),
		Regexp:      doc.Regexp,
		States:      make([]YamlState, 0, len(m.Nodes)),
		Transitions: []YamlTransition{},
	}
	for _, n := range m.Nodes {
		out.States = append(out.States, YamlState{
			ID:      int(n.ID),
			Number:  doc.Automaton.Number(n.ID),
			Initial: n.Initial,
			Accept:  n.Accept,
		})
	}
	for _, e := range m.Edges {
		if e.Epsilon {
			out.Epsilons = append(out.Epsilons, YamlEpsilon{From: int(e.From.ID), To: int(e.To.ID)})
			continue
		}
		out.Transitions = append(out.Transitions, YamlTransition{From: int(e.From.ID), To: int(e.To.ID), Label: e.Label})
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}

// FromYAML reads a document written by YAML back into an automaton and its
// pending epsilon pairs. State IDs in the document are remapped densely in
// the order listed; display numbers are restored as written.
func FromYAML(data []byte) (*automaton.Automaton, []automaton.StatePair, error) {
	var doc YamlAutomaton
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(doc.States) == 0 {
		return nil, nil, fmt.Errorf("yaml document has no states")
	}

	b := automaton.NewBuilder()
	ids := make(map[int]automaton.StateID, len(doc.States))
	numbers := make(map[automaton.StateID]int, len(doc.States))
	initial, initialCount := automaton.StateID(0), 0
	for _, s := range doc.States {
		if _, dup := ids[s.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate state id %d", s.ID)
		}
		id := b.AddState()
		ids[s.ID] = id
		numbers[id] = s.Number
		b.SetAccept(id, s.Accept)
		if s.Initial {
			initial = id
			initialCount++
		}
	}
	if initialCount != 1 {
		return nil, nil, &automaton.ParseError{
			Kind: automaton.KindMissingOrAmbiguousInitialState,
			Msg:  fmt.Sprintf("yaml document marks %d initial states, want exactly one", initialCount),
		}
	}

	lookup := func(n int) (automaton.StateID, error) {
		id, ok := ids[n]
		if !ok {
			return 0, fmt.Errorf("unknown state id %d", n)
		}
		return id, nil
	}

	for _, t := range doc.Transitions {
		from, err := lookup(t.From)
		if err != nil {
			return nil, nil, err
		}
		to, err := lookup(t.To)
		if err != nil {
			return nil, nil, err
		}
		label, err := automaton.ParseLabel(t.Label)
		if err != nil {
			return nil, nil, fmt.Errorf("transition %d -> %d: %w", t.From, t.To, err)
		}
		for _, r := range label.Ranges() {
			b.AddTransition(from, r.Min, r.Max, to)
		}
	}

	var pairs []automaton.StatePair
	for _, e := range doc.Epsilons {
		from, err := lookup(e.From)
		if err != nil {
			return nil, nil, err
		}
		to, err := lookup(e.To)
		if err != nil {
			return nil, nil, err
		}
		pairs = append(pairs, automaton.StatePair{From: from, To: to})
	}

	a, err := b.Build(initial)
	if err != nil {
		return nil, nil, err
	}
	for id, n := range numbers {
		a.SetNumber(id, n)
	}
	return a, pairs, nil
}
