package domain

import (
	"maps"
	"slices"
)

// CompositeState is a DFA state made of a set of NFA states.
type CompositeState struct {
	// Key is the sorted members joined by KeySeparator. It names the DFA state.
	Key string `json:"key" yaml:"key"`
	// Members are the NFA states, sorted.
	Members []string `json:"members" yaml:"members"`
}

// Contains reports whether the NFA state is a member.
func (c CompositeState) Contains(state string) bool {
	_, found := slices.BinarySearch(c.Members, state)
	return found
}

// DFA is the result of a subset construction.
// It is written once by the engine and must be treated as read-only afterwards.
type DFA struct {
	Alphabet []string `json:"alphabet" yaml:"alphabet"`

	// States are in discovery order. States[0] is the start state.
	States []CompositeState `json:"states" yaml:"states"`

	// Transitions maps state key -> symbol -> target key.
	// Every state has a row; a missing symbol means the implicit reject state.
	Transitions map[string]map[string]string `json:"transitions" yaml:"transitions"`

	// Accepting holds the keys of accepting states, in classification order.
	Accepting []string `json:"accepting" yaml:"accepting"`
}

// Start returns the start state. The zero value is returned for an empty DFA.
func (d *DFA) Start() CompositeState {
	if len(d.States) == 0 {
		return CompositeState{}
	}
	return d.States[0]
}

// State looks up a state by key.
func (d *DFA) State(key string) (CompositeState, bool) {
	for _, s := range d.States {
		if s.Key == key {
			return s, true
		}
	}
	return CompositeState{}, false
}

// Next returns the target of (key, symbol) and whether it is defined.
func (d *DFA) Next(key, symbol string) (string, bool) {
	row, ok := d.Transitions[key]
	if !ok {
		return "", false
	}
	to, ok := row[symbol]
	return to, ok
}

// IsAccepting reports whether key is an accepting state.
func (d *DFA) IsAccepting(key string) bool {
	return slices.Contains(d.Accepting, key)
}

// Accepts runs the DFA over word and reports acceptance.
// An undefined transition rejects.
func (d *DFA) Accepts(word []string) bool {
	if len(d.States) == 0 {
		return false
	}
	current := d.States[0].Key
	for _, sym := range word {
		next, ok := d.Next(current, sym)
		if !ok {
			return false
		}
		current = next
	}
	return d.IsAccepting(current)
}

// TransitionCount returns the number of defined transitions.
func (d *DFA) TransitionCount() int {
	n := 0
	for _, row := range d.Transitions {
		n += len(row)
	}
	return n
}

// Clone returns a deep copy of the DFA.
func (d *DFA) Clone() *DFA {
	if d == nil {
		return nil
	}
	c := &DFA{
		Alphabet:    slices.Clone(d.Alphabet),
		States:      make([]CompositeState, len(d.States)),
		Transitions: make(map[string]map[string]string, len(d.Transitions)),
		Accepting:   slices.Clone(d.Accepting),
	}
	for i, s := range d.States {
		c.States[i] = CompositeState{Key: s.Key, Members: slices.Clone(s.Members)}
	}
	for k, row := range d.Transitions {
		c.Transitions[k] = maps.Clone(row)
	}
	return c
}
