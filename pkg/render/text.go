package render

import (
	"fmt"
	"strings"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/mattn/go-runewidth"
)

// EmptySet marks a missing transition (the implicit reject state).
const EmptySet = "{}"

const minColumnWidth = 20

// cells measures terminal columns independently of the caller's locale.
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Table renders the transition table: one row per DFA state in discovery order,
// one column per alphabet symbol in declared order.
func Table(dfa *domain.DFA) string {
	width := minColumnWidth
	widen := func(s string) {
		if w := cells.StringWidth(s) + 2; w > width {
			width = w
		}
	}
	widen("State")
	for _, sym := range dfa.Alphabet {
		widen(sym)
	}
	for _, s := range dfa.States {
		widen(s.Key)
	}

	var sb strings.Builder
	sb.WriteString("DFA Transition Table:\n")

	header := []string{"State"}
	header = append(header, dfa.Alphabet...)
	writeRow(&sb, header, width)

	for _, s := range dfa.States {
		row := []string{s.Key}
		for _, sym := range dfa.Alphabet {
			to, ok := dfa.Next(s.Key, sym)
			if !ok {
				to = EmptySet
			}
			row = append(row, to)
		}
		writeRow(&sb, row, width)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, width int) {
	var line strings.Builder
	for _, c := range row {
		line.WriteString(c)
		line.WriteString(strings.Repeat(" ", width-cells.StringWidth(c)))
	}
	sb.WriteString(strings.TrimRight(line.String(), " "))
	sb.WriteByte('\n')
}

// Edges renders one line per defined transition: "source --symbol--> target".
func Edges(dfa *domain.DFA) string {
	var sb strings.Builder
	sb.WriteString("DFA Graph:\n")
	for _, s := range dfa.States {
		for _, sym := range dfa.Alphabet {
			if to, ok := dfa.Next(s.Key, sym); ok {
				fmt.Fprintf(&sb, "%s --%s--> %s\n", s.Key, sym, to)
			}
		}
	}
	return sb.String()
}

// Formal renders the five-tuple (Q, Σ, δ, q0, F) in set-brace notation.
// Undefined transitions are listed with the empty-set marker.
func Formal(dfa *domain.DFA) string {
	var sb strings.Builder
	sb.WriteString("Formal Definition of the DFA:\n")

	states := make([]string, len(dfa.States))
	for i, s := range dfa.States {
		states[i] = braced(s.Key)
	}
	fmt.Fprintf(&sb, "States: %s\n", set(states))
	fmt.Fprintf(&sb, "Alphabet: %s\n", set(dfa.Alphabet))

	sb.WriteString("Transitions: {\n")
	for _, s := range dfa.States {
		for _, sym := range dfa.Alphabet {
			target := EmptySet
			if to, ok := dfa.Next(s.Key, sym); ok {
				target = braced(to)
			}
			fmt.Fprintf(&sb, "  %s --%s--> %s\n", braced(s.Key), sym, target)
		}
	}
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "Initial State: %s\n", braced(dfa.Start().Key))

	accepting := make([]string, len(dfa.Accepting))
	for i, k := range dfa.Accepting {
		accepting[i] = braced(k)
	}
	fmt.Fprintf(&sb, "Accepting States: %s\n", set(accepting))
	return sb.String()
}

// Report concatenates Table, Edges and Formal, separated by blank lines.
func Report(dfa *domain.DFA) string {
	return Table(dfa) + "\n" + Edges(dfa) + "\n" + Formal(dfa)
}

func braced(key string) string {
	return "{" + key + "}"
}

func set(items []string) string {
	if len(items) == 0 {
		return EmptySet
	}
	return "{ " + strings.Join(items, ", ") + " }"
}
