package domain

import (
	"slices"
	"sort"
	"strings"
)

// NFA is a validated, read-only nondeterministic finite automaton.
// It is safe to share by reference across goroutines once built.
type NFA struct {
	names    []string       // index -> state name
	index    map[string]int // state name -> index
	declared []string
	alphabet []string
	symbols  map[string]bool

	// trans[i][symbol] holds the ordered targets of state i on symbol (Epsilon included).
	trans []map[string][]int

	initial   []int
	accepting []bool

	warnings []string
}

type nfaConfig struct {
	strict bool
}

// NFAOption configures NewNFA.
type NFAOption func(*nfaConfig)

// WithStrictReferences turns MalformedReference warnings into construction errors.
func WithStrictReferences(strict bool) NFAOption {
	return func(c *nfaConfig) {
		c.strict = strict
	}
}

// NewNFA validates a definition and builds the immutable NFA.
// Fatal problems are returned as errors wrapping ErrInvalidAutomaton; references to
// undeclared states are kept as opaque identifiers and reported by Warnings,
// unless WithStrictReferences is set.
func NewNFA(def Definition, opts ...NFAOption) (*NFA, error) {
	cfg := nfaConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := &NFA{
		index:   make(map[string]int),
		symbols: make(map[string]bool),
	}

	var fatal []error
	var references []*ValidationError

	for _, s := range def.States {
		if err := checkStateName("states", s); err != nil {
			fatal = append(fatal, err)
			continue
		}
		if _, ok := n.index[s]; !ok {
			n.intern(s)
			n.declared = append(n.declared, s)
		}
	}

	for _, sym := range def.Alphabet {
		if sym == "" {
			continue
		}
		if sym == Epsilon {
			fatal = append(fatal, &ValidationError{Field: "alphabet", Reason: "reserved symbol", Value: sym, Kind: ErrEpsilonInAlphabet})
			continue
		}
		if !n.symbols[sym] {
			n.symbols[sym] = true
			n.alphabet = append(n.alphabet, sym)
		}
	}

	initials := def.Initials()
	if len(initials) == 0 {
		fatal = append(fatal, &ValidationError{Field: "initial_state", Reason: "initial state is required", Kind: ErrNoInitialState})
	}
	for _, s := range initials {
		if _, ok := n.index[s]; !ok {
			fatal = append(fatal, &ValidationError{Field: "initial_state", Reason: "initial state is not a declared state", Value: s, Kind: ErrNoInitialState})
		}
	}

	undeclared := func(field, s string) {
		if _, ok := n.index[s]; ok {
			return
		}
		references = append(references, &ValidationError{Field: field, Reason: "undeclared state", Value: s, Kind: ErrMalformedReference})
		n.intern(s)
	}

	// Sorted iteration keeps interning and warnings deterministic.
	sources := make([]string, 0, len(def.Transitions))
	for src := range def.Transitions {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	type edge struct {
		from, symbol string
		to           []string
	}
	var edges []edge

	for _, src := range sources {
		if err := checkStateName("transitions", src); err != nil {
			fatal = append(fatal, err)
			continue
		}
		undeclared("transitions", src)

		row := def.Transitions[src]
		syms := make([]string, 0, len(row))
		for sym := range row {
			syms = append(syms, sym)
		}
		sort.Strings(syms)

		for _, sym := range syms {
			if sym != Epsilon && !n.symbols[sym] {
				references = append(references, &ValidationError{Field: "transitions", Reason: "symbol not in alphabet from " + src, Value: sym, Kind: ErrMalformedReference})
			}
			var targets []string
			for _, dst := range row[sym] {
				if err := checkStateName("transitions", dst); err != nil {
					fatal = append(fatal, err)
					continue
				}
				undeclared("transitions", dst)
				targets = append(targets, dst)
			}
			edges = append(edges, edge{from: src, symbol: sym, to: targets})
		}
	}

	for _, s := range def.AcceptingStates {
		if s == "" {
			continue
		}
		if err := checkStateName("accepting_states", s); err != nil {
			fatal = append(fatal, err)
			continue
		}
		undeclared("accepting_states", s)
	}

	if cfg.strict {
		for _, r := range references {
			fatal = append(fatal, r)
		}
	}
	if len(fatal) > 0 {
		if len(fatal) == 1 {
			return nil, fatal[0]
		}
		return nil, &AggregateError{Errors: fatal}
	}

	for _, r := range references {
		n.warnings = append(n.warnings, r.Error())
	}

	n.trans = make([]map[string][]int, len(n.names))
	for _, e := range edges {
		i := n.index[e.from]
		if n.trans[i] == nil {
			n.trans[i] = make(map[string][]int)
		}
		for _, dst := range e.to {
			n.trans[i][e.symbol] = append(n.trans[i][e.symbol], n.index[dst])
		}
	}

	for _, s := range initials {
		n.initial = append(n.initial, n.index[s])
	}

	n.accepting = make([]bool, len(n.names))
	for _, s := range def.AcceptingStates {
		if i, ok := n.index[s]; ok {
			n.accepting[i] = true
		}
	}

	return n, nil
}

func checkStateName(field, s string) error {
	if s == "" {
		return &ValidationError{Field: field, Reason: "state name cannot be empty", Kind: ErrInvalidStateName}
	}
	if strings.Contains(s, KeySeparator) {
		return &ValidationError{Field: field, Reason: "state name cannot contain " + KeySeparator, Value: s, Kind: ErrInvalidStateName}
	}
	return nil
}

func (n *NFA) intern(s string) int {
	i := len(n.names)
	n.names = append(n.names, s)
	n.index[s] = i
	return i
}

// Size returns the number of interned states (declared plus referenced).
func (n *NFA) Size() int { return len(n.names) }

// States returns the declared states in declaration order.
func (n *NFA) States() []string { return slices.Clone(n.declared) }

// Alphabet returns the alphabet in declared order, without duplicates.
func (n *NFA) Alphabet() []string { return slices.Clone(n.alphabet) }

// InitialStates returns the start states.
func (n *NFA) InitialStates() []string {
	out := make([]string, len(n.initial))
	for i, idx := range n.initial {
		out[i] = n.names[idx]
	}
	return out
}

// AcceptingStates returns the accepting states in index order.
func (n *NFA) AcceptingStates() []string {
	var out []string
	for i, ok := range n.accepting {
		if ok {
			out = append(out, n.names[i])
		}
	}
	return out
}

// Warnings returns the non-fatal reference problems found at construction.
func (n *NFA) Warnings() []string { return slices.Clone(n.warnings) }

// Index returns the interned index of a state.
func (n *NFA) Index(state string) (int, bool) {
	i, ok := n.index[state]
	return i, ok
}

// Name returns the state name for an index.
func (n *NFA) Name(i int) string { return n.names[i] }

// Outgoing returns the targets of (state, symbol), empty if undefined.
// The symbol may be Epsilon.
func (n *NFA) Outgoing(state, symbol string) []string {
	i, ok := n.index[state]
	if !ok {
		return nil
	}
	idx := n.OutgoingIndex(i, symbol)
	out := make([]string, len(idx))
	for k, t := range idx {
		out[k] = n.names[t]
	}
	return out
}

// OutgoingIndex is the index-level form of Outgoing. The returned slice must not be modified.
func (n *NFA) OutgoingIndex(i int, symbol string) []int {
	if n.trans[i] == nil {
		return nil
	}
	return n.trans[i][symbol]
}

// IsAccepting reports whether state is an accepting state.
func (n *NFA) IsAccepting(state string) bool {
	i, ok := n.index[state]
	return ok && n.accepting[i]
}

// IsAcceptingIndex is the index-level form of IsAccepting.
func (n *NFA) IsAcceptingIndex(i int) bool { return n.accepting[i] }

// HasSymbol reports whether symbol belongs to the alphabet.
func (n *NFA) HasSymbol(symbol string) bool { return n.symbols[symbol] }

// NewSet creates an empty StateSet sized for this NFA.
func (n *NFA) NewSet(members ...int) StateSet {
	return NewStateSet(len(n.names), members...)
}

// InitialSet returns the set of start states (before closure).
func (n *NFA) InitialSet() StateSet {
	return n.NewSet(n.initial...)
}

// SetOf builds a StateSet from state names. Unknown names are ignored.
func (n *NFA) SetOf(states ...string) StateSet {
	s := n.NewSet()
	for _, name := range states {
		if i, ok := n.index[name]; ok {
			s.Add(i)
		}
	}
	return s
}

// Members returns the sorted state names of a set.
func (n *NFA) Members(s StateSet) []string {
	idx := s.Indices()
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = n.names[i]
	}
	sort.Strings(out)
	return out
}

// Composite names a StateSet as a DFA state.
func (n *NFA) Composite(s StateSet) CompositeState {
	members := n.Members(s)
	return CompositeState{
		Key:     strings.Join(members, KeySeparator),
		Members: members,
	}
}

// Definition reconstructs a Definition equivalent to this NFA.
func (n *NFA) Definition() Definition {
	def := Definition{
		States:          n.States(),
		Alphabet:        n.Alphabet(),
		AcceptingStates: n.AcceptingStates(),
	}
	initials := n.InitialStates()
	if len(initials) > 0 {
		def.InitialState = initials[0]
		if len(initials) > 1 {
			def.InitialStates = initials[1:]
		}
	}
	for i, row := range n.trans {
		for sym, targets := range row {
			for _, t := range targets {
				def.AddTransition(n.names[i], sym, n.names[t])
			}
		}
	}
	return def
}
