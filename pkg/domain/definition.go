package domain

import "slices"

// Epsilon is the reserved symbol for empty-string transitions.
const Epsilon = "ε"

// KeySeparator joins the members of a composite state into its key.
const KeySeparator = ","

// Definition is the structured input contract for a conversion.
// It is usually produced by a parser (form notation, YAML, Markdown frontmatter).
type Definition struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	States   []string `json:"states" yaml:"states" mapstructure:"states"`
	Alphabet []string `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`

	// Transitions maps source state -> symbol (or Epsilon) -> target states.
	// An absent entry means "no transition".
	Transitions map[string]map[string][]string `json:"transitions" yaml:"transitions" mapstructure:"transitions"`

	InitialState string `json:"initial_state,omitempty" yaml:"initial_state,omitempty" mapstructure:"initial_state"`

	// InitialStates allows more than one start state. It is unioned with InitialState.
	InitialStates []string `json:"initial_states,omitempty" yaml:"initial_states,omitempty" mapstructure:"initial_states"`

	AcceptingStates []string `json:"accepting_states" yaml:"accepting_states" mapstructure:"accepting_states"`
}

// Initials returns InitialState followed by InitialStates, without duplicates or empty tokens.
func (d Definition) Initials() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	add(d.InitialState)
	for _, s := range d.InitialStates {
		add(s)
	}
	return out
}

// AddTransition appends a target for (from, symbol), creating nested maps as needed.
func (d *Definition) AddTransition(from, symbol, to string) {
	if d.Transitions == nil {
		d.Transitions = make(map[string]map[string][]string)
	}
	row, ok := d.Transitions[from]
	if !ok {
		row = make(map[string][]string)
		d.Transitions[from] = row
	}
	row[symbol] = append(row[symbol], to)
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	c := d
	c.States = slices.Clone(d.States)
	c.Alphabet = slices.Clone(d.Alphabet)
	c.InitialStates = slices.Clone(d.InitialStates)
	c.AcceptingStates = slices.Clone(d.AcceptingStates)
	if d.Transitions != nil {
		c.Transitions = make(map[string]map[string][]string, len(d.Transitions))
		for from, row := range d.Transitions {
			r := make(map[string][]string, len(row))
			for sym, targets := range row {
				r[sym] = slices.Clone(targets)
			}
			c.Transitions[from] = r
		}
	}
	return c
}
