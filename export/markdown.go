// ABOUTME: Exports an automaton as a deterministic Markdown document.
// ABOUTME: Sections: header, optional regexp, state table, transition table, epsilons, diagnostics, source.
package export

import (
	"fmt"
	"strings"
)

// Markdown renders the document as Markdown. States and transitions appear
// in the same order as the render projection.
func Markdown(doc Document) string {
	var out strings.Builder

	fmt.Fprintf(&out, "# %s\n", doc.title())
	if doc.Automaton == nil {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "_No automaton._")
		return out.String()
	}
	m := doc.model()

	accepting := 0
	for _, n := range m.Nodes {
		if n.Accept {
			accepting++
		}
	}
	fmt.Fprintln(&out)
	fmt.Fprintf(&out, "%d states, %d accepting, %d edges.\n", len(m.Nodes), accepting, len(m.Edges))

	if doc.Regexp != "" {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Regular Expression")
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, codeSpan(doc.Regexp))
	}

	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "## States")
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "| State | Initial | Accept |")
	fmt.Fprintln(&out, "|---|---|---|")
	for _, n := range m.Nodes {
		fmt.Fprintf(&out, "| %s | %s | %s |\n", n.Label, yesNo(n.Initial), yesNo(n.Accept))
	}

	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "## Transitions")
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "| From | Label | To |")
	fmt.Fprintln(&out, "|---|---|---|")
	var epsilons []string
	for _, e := range m.Edges {
		if e.Epsilon {
			epsilons = append(epsilons, fmt.Sprintf("- %s → %s", e.From.Label, e.To.Label))
			continue
		}
		fmt.Fprintf(&out, "| %s | %s | %s |\n", e.From.Label, codeSpan(escapeCell(e.Label)), e.To.Label)
	}

	if len(epsilons) > 0 {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Pending Epsilon Edges")
		fmt.Fprintln(&out)
		for _, line := range epsilons {
			fmt.Fprintln(&out, line)
		}
	}

	if len(doc.Diagnostics) > 0 {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Diagnostics")
		fmt.Fprintln(&out)
		for _, d := range doc.Diagnostics {
			fmt.Fprintf(&out, "- **%s** %s: %s\n", d.Severity, codeSpan(d.Rule), d.Message)
		}
	}

	if doc.Source != "" {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Source")
		fmt.Fprintln(&out)
		source := strings.TrimRight(doc.Source, "\n")
		fence := strings.Repeat("`", max(3, longestBacktickRun(source)+1))
		fmt.Fprintln(&out, fence+"dot")
		fmt.Fprintln(&out, source)
		fmt.Fprintln(&out, fence)
	}

	return out.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// escapeCell keeps pipe characters from splitting a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// codeSpan wraps s in an inline code span. Content holding backticks gets a
// longer delimiter and one space of padding on each side.
func codeSpan(s string) string {
	n := longestBacktickRun(s)
	if n == 0 {
		return "`" + s + "`"
	}
	delim := strings.Repeat("`", n+1)
	return delim + " " + s + " " + delim
}

// longestBacktickRun is the length of the longest run of consecutive backticks in s.
func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
