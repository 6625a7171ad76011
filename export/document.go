// ABOUTME: Document bundles an automaton with its source, pending epsilons, regexp, and lint results for export.
// ABOUTME: Shared input for the YAML, Markdown, and HTML report exporters.
package export

import (
	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/dot"
	"github.com/2389-research/automatizer/render"
)

// Document is everything an exporter may describe about one automaton.
type Document struct {
	Name        string
	Source      string
	Automaton   *automaton.Automaton
	Epsilons    []automaton.StatePair
	Regexp      string
	Diagnostics []dot.Diagnostic
}

// model projects the document's automaton, including pending epsilons.
func (d Document) model() render.Model {
	return render.ProjectWithEpsilons(d.Automaton, d.Epsilons)
}

func (d Document) title() string {
	if d.Name == "" {
		return "Automaton"
	}
	return d.Name
}
