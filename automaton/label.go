// ABOUTME: Edge label grammar: epsilon, single character, character range, and character set.
// ABOUTME: Parses labels and escapes into a tagged Label and formats characters back into label text.
package automaton

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// LabelKind tags which alternative a Label holds.
type LabelKind int

const (
	LabelEpsilon LabelKind = iota
	LabelChar
	LabelRange
	LabelSet
)

func (k LabelKind) String() string {
	switch k {
	case LabelEpsilon:
		return "epsilon"
	case LabelChar:
		return "char"
	case LabelRange:
		return "range"
	case LabelSet:
		return "set"
	}
	return fmt.Sprintf("LabelKind(%d)", int(k))
}

// Label is a parsed edge label. Min and Max are meaningful for LabelChar
// (Min == Max) and LabelRange. Set holds distinct characters in ascending
// order for LabelSet.
type Label struct {
	Kind LabelKind
	Min  rune
	Max  rune
	Set  []rune
}

// Range is an inclusive character range.
type Range struct {
	Min rune
	Max rune
}

// Ranges returns the transitions a label contributes: none for epsilon, one
// per member for a set.
func (l Label) Ranges() []Range {
	switch l.Kind {
	case LabelChar, LabelRange:
		return []Range{{Min: l.Min, Max: l.Max}}
	case LabelSet:
		rs := make([]Range, len(l.Set))
		for i, c := range l.Set {
			rs[i] = Range{Min: c, Max: c}
		}
		return rs
	}
	return nil
}

// ParseLabel parses edge label text. An empty label or an empty set is an
// epsilon edge. A label containing '-' is a range, a one-character label or a
// lone \u escape is a single character, and a label wrapped in brackets is a
// set of literal characters. The range separator is the first '-' after the first character,
// so "-", "--z" and "a--" name the minus character itself.
func ParseLabel(s string) (Label, error) {
	if s == "" {
		return Label{Kind: LabelEpsilon}, nil
	}

	if s != "-" && strings.Contains(s, "-") {
		// Index yields -1 when the only '-' is the leading one, giving an
		// empty lower bound.
		sep := strings.Index(s[1:], "-") + 1
		lo, err := ParseEscapedChar(s[:sep])
		if err != nil {
			return Label{}, err
		}
		hi, err := ParseEscapedChar(s[sep+1:])
		if err != nil {
			return Label{}, err
		}
		if lo > hi {
			return Label{}, &ParseError{Kind: KindInvalidEdgeLabel, Msg: fmt.Sprintf("inverted range %q", s)}
		}
		return Label{Kind: LabelRange, Min: lo, Max: hi}, nil
	}

	if utf8.RuneCountInString(s) == 1 {
		c, err := ParseEscapedChar(s)
		if err != nil {
			return Label{}, err
		}
		return Label{Kind: LabelChar, Min: c, Max: c}, nil
	}

	if len(s) > 2 && s[0] == '\\' && (s[1] == 'u' || s[1] == 'U') {
		c, err := ParseEscapedChar(s)
		if err != nil {
			return Label{}, err
		}
		return Label{Kind: LabelChar, Min: c, Max: c}, nil
	}

	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		seen := make(map[rune]bool)
		var set []rune
		for _, c := range s[1 : len(s)-1] {
			if c > MaxChar {
				return Label{}, &ParseError{Kind: KindInvalidEdgeLabel, Msg: fmt.Sprintf("character %U in %q is outside the alphabet", c, s)}
			}
			if !seen[c] {
				seen[c] = true
				set = append(set, c)
			}
		}
		if len(set) == 0 {
			return Label{Kind: LabelEpsilon}, nil
		}
		sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
		return Label{Kind: LabelSet, Set: set}, nil
	}

	return Label{}, &ParseError{Kind: KindInvalidEdgeLabel, Msg: fmt.Sprintf("unrecognized edge label %q", s)}
}

// ParseEscapedChar parses one label character. The empty string is NUL, a
// single character stands for itself, and a backslash followed by u or U and
// one to four hex digits is that code point.
func ParseEscapedChar(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}

	if r, size := utf8.DecodeRuneInString(s); size == len(s) {
		if r == utf8.RuneError && size == 1 {
			return 0, &ParseError{Kind: KindInvalidEscape, Msg: fmt.Sprintf("invalid UTF-8 in %q", s)}
		}
		if r > MaxChar {
			return 0, &ParseError{Kind: KindInvalidEdgeLabel, Msg: fmt.Sprintf("character %U is outside the alphabet", r)}
		}
		return r, nil
	}

	if len(s) < 3 || s[0] != '\\' || (s[1] != 'u' && s[1] != 'U') || len(s) > 6 {
		return 0, &ParseError{Kind: KindInvalidEscape, Msg: fmt.Sprintf("unknown character escape %q", s)}
	}
	n, err := strconv.ParseUint(s[2:], 16, 16)
	if err != nil {
		return 0, &ParseError{Kind: KindInvalidEscape, Msg: fmt.Sprintf("bad hex digits in escape %q", s), Err: err}
	}
	return rune(n), nil
}

// FormatChar renders c for an edge label: printable ASCII other than
// backslash and double quote is written as-is, anything else as a four-digit
// lowercase \u escape.
func FormatChar(c rune) string {
	if c >= 0x21 && c <= 0x7e && c != '\\' && c != '"' {
		return string(c)
	}
	return fmt.Sprintf("\\u%04x", c)
}

// FormatRange renders [min, max] as a single character or "min-max".
func FormatRange(min, max rune) string {
	if min == max {
		return FormatChar(min)
	}
	return FormatChar(min) + "-" + FormatChar(max)
}
