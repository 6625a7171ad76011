// ABOUTME: Typed parse failures for automaton text formats, classified by ErrorKind.
// ABOUTME: ParseError carries an optional source position and wraps the underlying cause.
package automaton

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why automaton text could not be parsed.
type ErrorKind int

const (
	KindMalformedGraphSyntax ErrorKind = iota
	KindMultipleGraphs
	KindMissingOrAmbiguousInitialState
	KindInvalidEdgeLabel
	KindInvalidEscape
)

var kindNames = [...]string{
	KindMalformedGraphSyntax:           "MalformedGraphSyntax",
	KindMultipleGraphs:                 "MultipleGraphs",
	KindMissingOrAmbiguousInitialState: "MissingOrAmbiguousInitialState",
	KindInvalidEdgeLabel:               "InvalidEdgeLabel",
	KindInvalidEscape:                  "InvalidEscape",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is returned for every failure to turn text into an automaton.
// Line and Col are zero when no position is known.
type ParseError struct {
	Kind ErrorKind
	Line int
	Col  int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Line > 0 && e.Col > 0:
		return fmt.Sprintf("%s: %s (line %d, col %d)", e.Kind, msg, e.Line, e.Col)
	case e.Line > 0:
		return fmt.Sprintf("%s: %s (line %d)", e.Kind, msg, e.Line)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}
