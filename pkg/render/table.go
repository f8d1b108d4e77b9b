package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/olekukonko/tablewriter"
)

// Markdown renders the transition table as a Markdown table.
// The start state is prefixed with "→" and accepting states with "*".
func Markdown(dfa *domain.DFA) string {
	var sb strings.Builder

	sb.WriteString("| State |")
	for _, sym := range dfa.Alphabet {
		fmt.Fprintf(&sb, " %s |", escapeCell(sym))
	}
	sb.WriteString("\n|---|")
	for range dfa.Alphabet {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, s := range dfa.States {
		fmt.Fprintf(&sb, "| %s |", escapeCell(stateLabel(dfa, s.Key)))
		for _, sym := range dfa.Alphabet {
			to, ok := dfa.Next(s.Key, sym)
			if !ok {
				to = EmptySet
			} else {
				to = braced(to)
			}
			fmt.Fprintf(&sb, " %s |", escapeCell(to))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Pretty writes a boxed terminal table of the transitions.
func Pretty(w io.Writer, dfa *domain.DFA) error {
	table := tablewriter.NewWriter(w)

	header := []any{"State"}
	for _, sym := range dfa.Alphabet {
		header = append(header, sym)
	}
	table.Header(header...)

	for _, s := range dfa.States {
		row := []string{stateLabel(dfa, s.Key)}
		for _, sym := range dfa.Alphabet {
			to, ok := dfa.Next(s.Key, sym)
			if !ok {
				to = EmptySet
			} else {
				to = braced(to)
			}
			row = append(row, to)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row for %s: %w", s.Key, err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// Format names an output rendering.
type Format string

const (
	FormatReport   Format = "report"
	FormatTable    Format = "table"
	FormatEdges    Format = "edges"
	FormatFormal   Format = "formal"
	FormatMermaid  Format = "mermaid"
	FormatDOT      Format = "dot"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported Format.
var Formats = []Format{FormatReport, FormatTable, FormatEdges, FormatFormal, FormatMermaid, FormatDOT, FormatMarkdown, FormatJSON}

// ParseFormat validates a format name. Empty means FormatReport.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatReport, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// Render produces the requested format.
func Render(dfa *domain.DFA, format Format) (string, error) {
	switch format {
	case FormatReport, "":
		return Report(dfa), nil
	case FormatTable:
		return Table(dfa), nil
	case FormatEdges:
		return Edges(dfa), nil
	case FormatFormal:
		return Formal(dfa), nil
	case FormatMermaid:
		return Mermaid(dfa, nil), nil
	case FormatDOT:
		return DOT(dfa), nil
	case FormatMarkdown:
		return Markdown(dfa), nil
	case FormatJSON:
		data, err := json.MarshalIndent(dfa, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal dfa: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func stateLabel(dfa *domain.DFA, key string) string {
	label := braced(key)
	if dfa.IsAccepting(key) {
		label = "*" + label
	}
	if len(dfa.States) > 0 && dfa.Start().Key == key {
		label = "→" + label
	}
	return label
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
