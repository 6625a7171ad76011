// ABOUTME: Builds a viewer Snapshot from source text: DOT is parsed, anything else goes to the regexp builder.
// ABOUTME: Applies view Options through the builder and projects the result for rendering.
package viewer

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/codec"
	"github.com/2389-research/automatizer/dot"
	"github.com/2389-research/automatizer/dot/validator"
	"github.com/2389-research/automatizer/render"
)

var dotHeader = regexp.MustCompile(`^\s*digraph\s+\w+\s*\{`)

// IsDOT reports whether text starts like a named digraph. Anything else is
// treated as a regular expression.
func IsDOT(text string) bool {
	return dotHeader.MatchString(text)
}

// Options are the view toggles applied on every refresh.
type Options struct {
	Minimize   bool `json:"minimize" yaml:"minimize"`
	Streaming  bool `json:"streaming" yaml:"streaming"`
	ShowRegexp bool `json:"show_regexp" yaml:"show_regexp"`
}

// Snapshot is one successfully built view. Snapshots are never modified
// after Build returns.
type Snapshot struct {
	Source      string
	Options     Options
	Automaton   *automaton.Automaton
	Epsilons    []automaton.StatePair
	Model       render.Model
	Regexp      string
	RegexpErr   error
	Diagnostics []dot.Diagnostic
	BuiltAt     time.Time
}

// Build turns source text into a Snapshot. DOT input is parsed with codec.Parse
// and its epsilon pairs are handed to the builder; when the builder cannot
// resolve them they stay pending and are drawn as epsilon edges. Other input
// is passed to BuildFromRegexp.
func Build(b AutomatonBuilder, text string, opts Options) (*Snapshot, error) {
	snap := &Snapshot{Source: text, Options: opts, BuiltAt: time.Now()}

	var a *automaton.Automaton
	if IsDOT(text) {
		res, err := codec.Parse(text)
		if err != nil {
			return nil, err
		}
		a = res.Automaton
		snap.Diagnostics = validator.LintSource(text)

		if len(res.Epsilons) > 0 {
			resolved, err := b.AddEpsilons(a, res.Epsilons)
			switch {
			case errors.Is(err, ErrBuilderUnavailable):
				snap.Epsilons = res.Epsilons
			case err != nil:
				return nil, fmt.Errorf("add epsilons: %w", err)
			default:
				a = resolved
			}
		}
	} else {
		built, err := b.BuildFromRegexp(text, opts.Streaming)
		if err != nil {
			return nil, fmt.Errorf("build from regexp: %w", err)
		}
		a = built
	}

	if len(snap.Epsilons) == 0 {
		transformed, err := b.Transform(a, opts.Minimize, opts.Streaming)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		a = transformed
		automaton.Renumber(a)
	}

	if opts.ShowRegexp {
		snap.Regexp, snap.RegexpErr = b.ToRegexpString(a)
	}

	snap.Automaton = a
	snap.Model = render.ProjectWithEpsilons(a, snap.Epsilons)
	return snap, nil
}
