// ABOUTME: Canonical breadth-first state numbering for stable, readable automaton displays.
// ABOUTME: Reachable states get 0..n-1 in BFS order; unreachable states keep their previous numbers.
package automaton

// Renumber assigns display numbers in breadth-first order from the initial
// state, which always receives 0. Successors are visited in SortedTransitions
// order and are marked when enqueued, so each state is numbered once.
// Renumber is idempotent.
func Renumber(a *Automaton) {
	for n, id := range a.Reachable() {
		a.states[id].number = n
	}
}
