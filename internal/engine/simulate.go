package engine

import "github.com/aretw0/subset/pkg/domain"

// Simulate runs the NFA directly over word, tracking the set of active states.
// It is the reference acceptance oracle for converted DFAs, so it walks
// NFA.Outgoing by state name and shares no code with the Engine.
func Simulate(nfa *domain.NFA, word []string) bool {
	current := closure(nfa, nfa.InitialStates())
	for _, symbol := range word {
		if symbol == domain.Epsilon || !nfa.HasSymbol(symbol) {
			return false
		}
		var targets []string
		for state := range current {
			targets = append(targets, nfa.Outgoing(state, symbol)...)
		}
		current = closure(nfa, targets)
		if len(current) == 0 {
			return false
		}
	}
	for state := range current {
		if nfa.IsAccepting(state) {
			return true
		}
	}
	return false
}

// closure follows ε-moves breadth first from seed.
func closure(nfa *domain.NFA, seed []string) map[string]bool {
	seen := make(map[string]bool, len(seed))
	queue := make([]string, 0, len(seed))
	for _, s := range seed {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, next := range nfa.Outgoing(state, domain.Epsilon) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// Words enumerates every word over alphabet with length up to maxLen, shortest first.
func Words(alphabet []string, maxLen int) [][]string {
	words := [][]string{{}}
	frontier := [][]string{{}}
	for l := 1; l <= maxLen; l++ {
		var next [][]string
		for _, w := range frontier {
			for _, sym := range alphabet {
				nw := make([]string, len(w)+1)
				copy(nw, w)
				nw[len(w)] = sym
				next = append(next, nw)
			}
		}
		words = append(words, next...)
		frontier = next
	}
	return words
}
