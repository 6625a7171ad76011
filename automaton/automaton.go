// ABOUTME: Finite automaton model stored as an index-based state arena with a designated initial state.
// ABOUTME: States carry an accept flag, a display number, and character-range transitions to other states.
package automaton

import (
	"fmt"
	"sort"
)

// MaxChar is the largest character an automaton transition can carry.
const MaxChar rune = 0xFFFF

// StateID indexes a state inside the Automaton that created it.
type StateID int

// Transition moves to To on any character in [Min, Max].
type Transition struct {
	Min rune
	Max rune
	To  StateID
}

// StatePair records a pending epsilon edge between two states.
type StatePair struct {
	From StateID
	To   StateID
}

type state struct {
	accept      bool
	number      int
	transitions []Transition
}

// Automaton is a finite automaton with exactly one initial state. The zero value
// is not usable; obtain one from New or Builder.Build.
type Automaton struct {
	states  []state
	initial StateID
}

// New returns an automaton holding a single non-accepting initial state.
func New() *Automaton {
	return &Automaton{states: []state{{}}}
}

// Initial returns the designated initial state.
func (a *Automaton) Initial() StateID {
	return a.initial
}

// Len returns the number of registered states, reachable or not.
func (a *Automaton) Len() int {
	return len(a.states)
}

// States returns every registered state in ascending ID order.
func (a *Automaton) States() []StateID {
	ids := make([]StateID, len(a.states))
	for i := range a.states {
		ids[i] = StateID(i)
	}
	return ids
}

// AddState registers a new non-accepting state with no transitions. Its display
// number starts out equal to its ID.
func (a *Automaton) AddState() StateID {
	id := StateID(len(a.states))
	a.states = append(a.states, state{number: int(id)})
	return id
}

func (a *Automaton) check(id StateID) {
	if id < 0 || int(id) >= len(a.states) {
		panic(fmt.Sprintf("automaton: state %d does not belong to this automaton (%d states)", id, len(a.states)))
	}
}

// AddTransition adds a transition from one state to another on [min, max].
// Panics if either state is foreign or the range is empty or out of bounds.
func (a *Automaton) AddTransition(from StateID, min, max rune, to StateID) {
	a.check(from)
	a.check(to)
	if min > max || min < 0 || max > MaxChar {
		panic(fmt.Sprintf("automaton: invalid transition range %#x-%#x", min, max))
	}
	a.states[from].transitions = append(a.states[from].transitions, Transition{Min: min, Max: max, To: to})
}

// IsAccept reports whether id is an accepting state.
func (a *Automaton) IsAccept(id StateID) bool {
	a.check(id)
	return a.states[id].accept
}

// SetAccept marks or unmarks id as accepting.
func (a *Automaton) SetAccept(id StateID, accept bool) {
	a.check(id)
	a.states[id].accept = accept
}

// Number returns the display number of id.
func (a *Automaton) Number(id StateID) int {
	a.check(id)
	return a.states[id].number
}

// SetNumber sets the display number of id.
func (a *Automaton) SetNumber(id StateID, n int) {
	a.check(id)
	a.states[id].number = n
}

// Transitions returns a copy of the transitions leaving id in insertion order.
func (a *Automaton) Transitions(id StateID) []Transition {
	a.check(id)
	return append([]Transition(nil), a.states[id].transitions...)
}

// SortedTransitions returns the transitions leaving id ordered by Min. Ties
// keep insertion order.
func (a *Automaton) SortedTransitions(id StateID) []Transition {
	ts := a.Transitions(id)
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Min < ts[j].Min })
	return ts
}

// Reachable returns the states reachable from the initial state in
// breadth-first order, following SortedTransitions. This is the order
// Renumber assigns numbers in.
func (a *Automaton) Reachable() []StateID {
	visited := make([]bool, len(a.states))
	queue := []StateID{a.initial}
	visited[a.initial] = true
	order := make([]StateID, 0, len(a.states))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, t := range a.SortedTransitions(id) {
			if !visited[t.To] {
				visited[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}
	return order
}

// Clone returns a deep copy. State IDs are preserved.
func (a *Automaton) Clone() *Automaton {
	c := &Automaton{states: make([]state, len(a.states)), initial: a.initial}
	for i, s := range a.states {
		c.states[i] = state{
			accept:      s.accept,
			number:      s.number,
			transitions: append([]Transition(nil), s.transitions...),
		}
	}
	return c
}
