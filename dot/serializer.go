// ABOUTME: Serializer that converts a Graph AST back to DOT source with deterministic output.
// ABOUTME: Orders nodes naturally (numeric IDs by value), keeps edge order, and quotes only when required.
package dot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Serialize converts a Graph AST back to a DOT-formatted string.
// Nodes are emitted in natural ID order, attributes sorted by key, and edges
// in their original order so that re-parsing yields the same edge sequence.
func Serialize(g *Graph) string {
	var b strings.Builder

	if g.Name == "" {
		b.WriteString("digraph {\n")
	} else {
		fmt.Fprintf(&b, "digraph %s {\n", quoteID(g.Name))
	}

	if len(g.Attrs) > 0 {
		fmt.Fprintf(&b, "  graph [%s]\n", formatAttrs(g.Attrs))
	}
	if len(g.NodeDefaults) > 0 {
		fmt.Fprintf(&b, "  node [%s]\n", formatAttrs(g.NodeDefaults))
	}
	if len(g.EdgeDefaults) > 0 {
		fmt.Fprintf(&b, "  edge [%s]\n", formatAttrs(g.EdgeDefaults))
	}
	if len(g.Attrs) > 0 || len(g.NodeDefaults) > 0 || len(g.EdgeDefaults) > 0 {
		b.WriteString("\n")
	}

	nodeIDs := naturalOrder(g.Nodes)
	for _, id := range nodeIDs {
		node := g.Nodes[id]
		if len(node.Attrs) > 0 {
			fmt.Fprintf(&b, "  %s [%s]\n", quoteID(id), formatAttrs(node.Attrs))
		} else {
			fmt.Fprintf(&b, "  %s\n", quoteID(id))
		}
	}

	if len(nodeIDs) > 0 && len(g.Subgraphs) > 0 {
		b.WriteString("\n")
	}

	for _, sg := range g.Subgraphs {
		if sg.Name == "" {
			b.WriteString("  subgraph {\n")
		} else {
			fmt.Fprintf(&b, "  subgraph %s {\n", quoteID(sg.Name))
		}
		for _, k := range sortedKeys(sg.Attrs) {
			fmt.Fprintf(&b, "    %s=%s\n", quoteID(k), quoteValue(sg.Attrs[k]))
		}
		for _, nodeID := range sg.NodeIDs {
			fmt.Fprintf(&b, "    %s\n", quoteID(nodeID))
		}
		b.WriteString("  }\n")
	}

	if (len(nodeIDs) > 0 || len(g.Subgraphs) > 0) && len(g.Edges) > 0 {
		b.WriteString("\n")
	}

	for _, e := range g.Edges {
		if len(e.Attrs) > 0 {
			fmt.Fprintf(&b, "  %s -> %s [%s]\n", quoteID(e.From), quoteID(e.To), formatAttrs(e.Attrs))
		} else {
			fmt.Fprintf(&b, "  %s -> %s\n", quoteID(e.From), quoteID(e.To))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// formatAttrs renders a map of key=value pairs as a comma-separated string with sorted keys.
func formatAttrs(attrs map[string]string) string {
	keys := sortedKeys(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, quoteID(k)+"="+quoteValue(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// reserved words must be quoted when used as IDs.
var reserved = map[string]bool{
	"digraph":  true,
	"graph":    true,
	"subgraph": true,
	"node":     true,
	"edge":     true,
	"strict":   true,
}

// quoteID quotes a node, graph, or key identifier when it is not a bare DOT ID.
func quoteID(id string) string {
	if isBareIdentifier(id) && !reserved[strings.ToLower(id)] {
		return id
	}
	return quoteString(id)
}

// quoteValue returns a DOT-safe representation of an attribute value.
func quoteValue(val string) string {
	if isBareIdentifier(val) {
		return val
	}
	return quoteString(val)
}

// quoteString wraps val in double quotes. A backslash is doubled only when the
// lexer would otherwise fold it together with the next rune, so sequences like
// \u0041 are written as-is and survive a parse.
func quoteString(val string) string {
	runes := []rune(val)
	var b strings.Builder
	b.Grow(len(val) + 2)
	b.WriteByte('"')
	for i, ch := range runes {
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			if i+1 < len(runes) && !foldsAfterBackslash(runes[i+1]) {
				b.WriteByte('\\')
			} else {
				b.WriteString(`\\`)
			}
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// foldsAfterBackslash mirrors the escapes lexString collapses.
func foldsAfterBackslash(r rune) bool {
	switch r {
	case '"', '\\', 'n', 't', '\n':
		return true
	}
	return false
}

// isBareIdentifier returns true if val can be written without quotes: a
// number, or a letter/underscore followed by letters, digits, and underscores.
func isBareIdentifier(val string) bool {
	if val == "" {
		return false
	}
	if isNumeric(val) {
		return true
	}
	for i, ch := range val {
		if ch > unicode.MaxASCII {
			return false
		}
		if ch == '_' || unicode.IsLetter(ch) {
			continue
		}
		if i > 0 && unicode.IsDigit(ch) {
			continue
		}
		return false
	}
	return true
}

// isNumeric returns true if val looks like a number (integer or float, possibly negative).
func isNumeric(val string) bool {
	if val == "" {
		return false
	}
	start := 0
	if val[0] == '-' {
		if len(val) == 1 {
			return false
		}
		start = 1
	}
	hasDot := false
	hasDigit := false
	for i := start; i < len(val); i++ {
		ch := val[i]
		switch {
		case ch == '.':
			if hasDot {
				return false
			}
			hasDot = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		default:
			return false
		}
	}
	return hasDigit
}

// naturalOrder returns the node IDs with integers first in
// numeric order, then everything else lexically.
func naturalOrder(nodes map[string]*Node) []string {
	ids := sortedKeys(nodes)
	sort.SliceStable(ids, func(i, j int) bool {
		ni, errI := strconv.Atoi(ids[i])
		nj, errJ := strconv.Atoi(ids[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		default:
			return false
		}
	})
	return ids
}

// sortedKeys returns the keys of a map in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
