// ABOUTME: The AutomatonBuilder collaborator that turns regexps into automata and transforms them.
// ABOUTME: Passthrough is the in-tree stand-in used when no real builder is configured.
package viewer

import (
	"errors"

	"github.com/2389-research/automatizer/automaton"
)

// ErrBuilderUnavailable is returned by builders that cannot perform an operation.
var ErrBuilderUnavailable = errors.New("automaton builder unavailable")

// AutomatonBuilder builds and transforms automata on behalf of the viewer.
type AutomatonBuilder interface {
	BuildFromRegexp(expr string, streaming bool) (*automaton.Automaton, error)
	AddEpsilons(a *automaton.Automaton, pairs []automaton.StatePair) (*automaton.Automaton, error)
	Transform(a *automaton.Automaton, minimize, streaming bool) (*automaton.Automaton, error)
	ToRegexpString(a *automaton.Automaton) (string, error)
}

// Passthrough implements AutomatonBuilder without any automaton algorithms.
// Regexp input and output are unavailable, epsilon pairs stay pending, and
// Transform returns an unchanged copy.
type Passthrough struct{}

// BuildFromRegexp always fails with ErrBuilderUnavailable.
func (Passthrough) BuildFromRegexp(string, bool) (*automaton.Automaton, error) {
	return nil, ErrBuilderUnavailable
}

// AddEpsilons always fails with ErrBuilderUnavailable so callers keep the pairs pending.
func (Passthrough) AddEpsilons(*automaton.Automaton, []automaton.StatePair) (*automaton.Automaton, error) {
	return nil, ErrBuilderUnavailable
}

// Transform returns a copy of a.
func (Passthrough) Transform(a *automaton.Automaton, _, _ bool) (*automaton.Automaton, error) {
	return a.Clone(), nil
}

// ToRegexpString always fails with ErrBuilderUnavailable.
func (Passthrough) ToRegexpString(*automaton.Automaton) (string, error) {
	return "", ErrBuilderUnavailable
}
