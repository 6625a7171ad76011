// ABOUTME: Builder collects states and transitions before the initial state is known.
// ABOUTME: Build validates the choice of initial state and hands the arena over to an Automaton.
package automaton

import "fmt"

// Builder assembles an Automaton incrementally. Parsers use it because the
// initial state is only known after every edge has been read.
type Builder struct {
	a     Automaton
	built bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddState registers a new state and returns its ID.
func (b *Builder) AddState() StateID {
	b.mustOpen()
	return b.a.AddState()
}

// Len returns the number of states added so far.
func (b *Builder) Len() int {
	return b.a.Len()
}

// SetAccept marks or unmarks id as accepting.
func (b *Builder) SetAccept(id StateID, accept bool) {
	b.mustOpen()
	b.a.SetAccept(id, accept)
}

// AddTransition adds a transition on [min, max]. See Automaton.AddTransition.
func (b *Builder) AddTransition(from StateID, min, max rune, to StateID) {
	b.mustOpen()
	b.a.AddTransition(from, min, max, to)
}

// Build returns the automaton with initial as its initial state. The builder
// cannot be used afterwards.
func (b *Builder) Build(initial StateID) (*Automaton, error) {
	b.mustOpen()
	if initial < 0 || int(initial) >= b.a.Len() {
		return nil, fmt.Errorf("initial state %d out of range (%d states)", initial, b.a.Len())
	}
	b.built = true
	a := b.a
	a.initial = initial
	return &a, nil
}

func (b *Builder) mustOpen() {
	if b.built {
		panic("automaton: builder used after Build")
	}
}
