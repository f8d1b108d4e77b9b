/*
Package domain contains the automaton models used by the subset construction engine.

It defines the immutable source automaton (NFA), the immutable conversion result
(DFA) and the state sets that connect them. This package is kept pure and free of
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Definition: The structured input contract (states, alphabet, transitions, initial and accepting states).
  - NFA: A validated, read-only automaton built from a Definition. States are interned to dense indices.
  - StateSet: A set of NFA states, backed by a bitset. Equality is structural.
  - CompositeState: A DFA state, named by the sorted, comma-joined members of its StateSet.
  - DFA: The determinized automaton. Built once by the engine and never mutated afterwards.
*/
package domain
