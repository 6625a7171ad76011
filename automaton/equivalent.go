// ABOUTME: Structural equivalence of two automata over their reachable parts.
// ABOUTME: Pairs states by BFS position and compares accept flags and sorted transition ranges.
package automaton

// Equivalent reports whether a and b have the same reachable structure: the
// same number of reachable states, and states at the same BFS position agree
// on accept flag and on their transitions (ranges and BFS-paired targets) in
// SortedTransitions order. State IDs and display numbers are ignored.
func Equivalent(a, b *Automaton) bool {
	ra, rb := a.Reachable(), b.Reachable()
	if len(ra) != len(rb) {
		return false
	}

	posA := make(map[StateID]int, len(ra))
	for i, id := range ra {
		posA[id] = i
	}
	posB := make(map[StateID]int, len(rb))
	for i, id := range rb {
		posB[id] = i
	}

	for i := range ra {
		sa, sb := ra[i], rb[i]
		if a.IsAccept(sa) != b.IsAccept(sb) {
			return false
		}
		ta, tb := a.SortedTransitions(sa), b.SortedTransitions(sb)
		if len(ta) != len(tb) {
			return false
		}
		for j := range ta {
			if ta[j].Min != tb[j].Min || ta[j].Max != tb[j].Max {
				return false
			}
			if posA[ta[j].To] != posB[tb[j].To] {
				return false
			}
		}
	}
	return true
}
