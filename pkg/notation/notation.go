// Package notation parses the compact text notation used by the conversion form:
// comma-separated token lists and SOURCE:SYMBOL->TARGET transition triples.
package notation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/subset/pkg/domain"
)

// ErrSyntax is returned for transition entries that do not match SOURCE:SYMBOL->TARGET.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates a malformed transition entry.
type SyntaxError struct {
	Index int    // zero-based position in the comma-separated list
	Entry string // the offending entry
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("transition #%d %q: %s", e.Index+1, e.Entry, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Form holds the five raw text fields of the conversion form.
type Form struct {
	States      string `json:"states" yaml:"states" mapstructure:"states"`
	Alphabet    string `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`
	Transitions string `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
	Initial     string `json:"initial" yaml:"initial" mapstructure:"initial"`
	Accepting   string `json:"accepting" yaml:"accepting" mapstructure:"accepting"`
}

// ParseList splits a comma-separated token list, dropping empty tokens.
func ParseList(input string) []string {
	var out []string
	for _, tok := range strings.Split(input, ",") {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ParseTransitions parses "q0:a->q1,q1:ε->q2" into source -> symbol -> targets.
// Repeated (source, symbol) pairs accumulate targets in order.
func ParseTransitions(input string) (map[string]map[string][]string, error) {
	var def domain.Definition
	for i, entry := range strings.Split(input, ",") {
		if entry == "" {
			continue
		}
		from, symbol, to, err := parseTriple(entry)
		if err != nil {
			return nil, &SyntaxError{Index: i, Entry: entry, Msg: err.Error()}
		}
		def.AddTransition(from, symbol, to)
	}
	if def.Transitions == nil {
		return map[string]map[string][]string{}, nil
	}
	return def.Transitions, nil
}

func parseTriple(entry string) (from, symbol, to string, err error) {
	lhs, to, ok := strings.Cut(entry, "->")
	if !ok {
		return "", "", "", errors.New("missing '->'")
	}
	from, symbol, ok = strings.Cut(lhs, ":")
	if !ok {
		return "", "", "", errors.New("missing ':' between source and symbol")
	}
	switch {
	case from == "":
		return "", "", "", errors.New("empty source state")
	case symbol == "":
		return "", "", "", errors.New("empty symbol")
	case to == "":
		return "", "", "", errors.New("empty target state")
	case strings.Contains(to, "->"):
		return "", "", "", errors.New("more than one '->'")
	}
	return from, symbol, to, nil
}

// FormatTransitions writes transitions back in the notation, sorted by source then symbol.
func FormatTransitions(def domain.Definition) string {
	var entries []string
	for _, from := range sortedKeys(def.Transitions) {
		row := def.Transitions[from]
		for _, sym := range sortedKeys(row) {
			for _, to := range row[sym] {
				entries = append(entries, from+":"+sym+"->"+to)
			}
		}
	}
	return strings.Join(entries, ",")
}

// ParseForm sanitizes every field and builds a Definition.
// The initial field may list several start states.
func ParseForm(f Form) (domain.Definition, error) {
	fields := []*string{&f.States, &f.Alphabet, &f.Transitions, &f.Initial, &f.Accepting}
	names := []string{"states", "alphabet", "transitions", "initial", "accepting"}
	for i, field := range fields {
		clean, err := Sanitize(*field)
		if err != nil {
			return domain.Definition{}, fmt.Errorf("field %s: %w", names[i], err)
		}
		*field = clean
	}

	transitions, err := ParseTransitions(f.Transitions)
	if err != nil {
		return domain.Definition{}, err
	}

	def := domain.Definition{
		States:          ParseList(f.States),
		Alphabet:        ParseList(f.Alphabet),
		Transitions:     transitions,
		AcceptingStates: ParseList(f.Accepting),
	}
	initials := ParseList(f.Initial)
	if len(initials) > 0 {
		def.InitialState = initials[0]
		def.InitialStates = initials[1:]
	}
	return def, nil
}

// FormOf converts a Definition back into form fields.
func FormOf(def domain.Definition) Form {
	return Form{
		States:      strings.Join(def.States, ","),
		Alphabet:    strings.Join(def.Alphabet, ","),
		Transitions: FormatTransitions(def),
		Initial:     strings.Join(def.Initials(), ","),
		Accepting:   strings.Join(def.AcceptingStates, ","),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
