/*
Package subset converts nondeterministic finite automata (NFA) into equivalent
deterministic finite automata (DFA) using the subset construction.

Every DFA state is a set of NFA states. Conversion starts from the epsilon-closure
of the initial states and, for each discovered set and each alphabet symbol, moves
on the symbol and closes again. Sets are deduplicated structurally, so the result
contains only reachable composite states, in discovery order.

# Usage

A Converter takes a domain.Definition, validates it and returns a Result holding
the DFA and any warnings:

	conv, err := subset.New("")
	if err != nil {
		log.Fatal(err)
	}

	def := domain.Definition{
		States:          []string{"q0", "q1", "q2"},
		Alphabet:        []string{"a", "b"},
		InitialState:    "q0",
		AcceptingStates: []string{"q2"},
	}
	def.AddTransition("q0", "a", "q1")
	def.AddTransition("q1", "b", "q2")
	def.AddTransition("q0", domain.Epsilon, "q2")

	res, err := conv.Convert(ctx, def)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(render.Report(res.DFA))

Definitions can also come from a directory of Markdown files (Loam, the default
when New is given a path) or from any ports.DefinitionLoader. Results can be
cached in a ports.ResultStore.

# Errors

Every validation failure wraps domain.ErrInvalidAutomaton; use errors.Is with the
more specific sentinels (domain.ErrNoInitialState, domain.ErrMalformedReference, ...)
or domain.ValidationErrors to inspect the details.

# Packages

  - pkg/domain: Definition, NFA, DFA, state sets, errors and hooks.
  - pkg/render: table, edge list, formal tuple, Mermaid, DOT and Markdown renderings.
  - pkg/notation: the compact text notation ("q0:a->q1,q1:b->q2").
  - pkg/ports: loader and store interfaces plus their contract suites.
  - pkg/observability: Prometheus metrics and logging hooks.
*/
package subset
