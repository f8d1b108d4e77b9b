package render

import (
	"fmt"
	"strings"

	"github.com/aretw0/subset/pkg/domain"
)

// Overlay contains a run of the DFA to highlight on a diagram.
type Overlay struct {
	Visited []string // state keys, in visit order
	Current string   // state key where the run stopped
}

// Mermaid produces a Mermaid flowchart of the DFA.
// Node IDs are positional (S0, S1, ...) because keys contain commas.
// Shapes:
// - Start: stadium with an entry arrow
// - Accepting: (((double circle)))
// - Default: (circle)
func Mermaid(dfa *domain.DFA, overlay *Overlay) string {
	ids := nodeIDs(dfa)

	var sb strings.Builder
	sb.WriteString("graph LR\n")
	if len(dfa.States) > 0 {
		sb.WriteString("    start(( )) --> S0\n")
	}

	for i, s := range dfa.States {
		opener, closer := "((", "))"
		if dfa.IsAccepting(s.Key) {
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    S%d%s\"{%s}\"%s\n", i, opener, s.Key, closer)
	}

	for _, s := range dfa.States {
		for _, sym := range dfa.Alphabet {
			if to, ok := dfa.Next(s.Key, sym); ok {
				safeSym := strings.ReplaceAll(sym, "\"", "'")
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", ids[s.Key], safeSym, ids[to])
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, key := range overlay.Visited {
			id, ok := ids[key]
			if !ok || visited[id] {
				continue
			}
			visited[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if id, ok := ids[overlay.Current]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

// DOT produces a Graphviz digraph of the DFA.
func DOT(dfa *domain.DFA) string {
	var sb strings.Builder

	sb.WriteString("digraph DFA {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("\n")

	if len(dfa.States) > 0 {
		sb.WriteString("  start [shape=point];\n")
		fmt.Fprintf(&sb, "  start -> %q;\n", braced(dfa.Start().Key))
		sb.WriteString("\n")
	}

	for _, s := range dfa.States {
		if dfa.IsAccepting(s.Key) {
			fmt.Fprintf(&sb, "  %q [shape=doublecircle];\n", braced(s.Key))
		} else {
			fmt.Fprintf(&sb, "  %q;\n", braced(s.Key))
		}
	}
	sb.WriteString("\n")

	for _, s := range dfa.States {
		for _, sym := range dfa.Alphabet {
			if to, ok := dfa.Next(s.Key, sym); ok {
				fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n", braced(s.Key), braced(to), sym)
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Trace runs word over the DFA and returns an overlay of the visited states.
// The run stops at the first undefined transition.
func Trace(dfa *domain.DFA, word []string) *Overlay {
	if len(dfa.States) == 0 {
		return &Overlay{}
	}
	current := dfa.Start().Key
	overlay := &Overlay{Visited: []string{current}, Current: current}
	for _, sym := range word {
		next, ok := dfa.Next(current, sym)
		if !ok {
			break
		}
		current = next
		overlay.Visited = append(overlay.Visited, current)
		overlay.Current = current
	}
	return overlay
}

func nodeIDs(dfa *domain.DFA) map[string]string {
	ids := make(map[string]string, len(dfa.States))
	for i, s := range dfa.States {
		ids[s.Key] = fmt.Sprintf("S%d", i)
	}
	return ids
}
