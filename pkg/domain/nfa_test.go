package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDefinition() Definition {
	def := Definition{
		States:          []string{"q0", "q1", "q2"},
		Alphabet:        []string{"a", "b"},
		InitialState:    "q0",
		AcceptingStates: []string{"q2"},
	}
	def.AddTransition("q0", "a", "q1")
	def.AddTransition("q1", "b", "q2")
	def.AddTransition("q0", Epsilon, "q2")
	return def
}

func TestNewNFA_Queries(t *testing.T) {
	nfa, err := NewNFA(baseDefinition())
	require.NoError(t, err)

	assert.Equal(t, []string{"q0", "q1", "q2"}, nfa.States())
	assert.Equal(t, []string{"a", "b"}, nfa.Alphabet())
	assert.Equal(t, []string{"q0"}, nfa.InitialStates())
	assert.Equal(t, []string{"q1"}, nfa.Outgoing("q0", "a"))
	assert.Equal(t, []string{"q2"}, nfa.Outgoing("q0", Epsilon))
	assert.Empty(t, nfa.Outgoing("q0", "b"))
	assert.Empty(t, nfa.Outgoing("missing", "a"))
	assert.True(t, nfa.IsAccepting("q2"))
	assert.False(t, nfa.IsAccepting("q0"))
	assert.Empty(t, nfa.Warnings())
}

func TestNewNFA_NoInitialState(t *testing.T) {
	tests := []struct {
		name    string
		initial string
	}{
		{"Missing", ""},
		{"Undeclared", "q9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := baseDefinition()
			def.InitialState = tt.initial

			nfa, err := NewNFA(def)
			assert.Nil(t, nfa)
			assert.ErrorIs(t, err, ErrInvalidAutomaton)
			assert.ErrorIs(t, err, ErrNoInitialState)
		})
	}
}

func TestNewNFA_EpsilonInAlphabet(t *testing.T) {
	def := baseDefinition()
	def.Alphabet = append(def.Alphabet, Epsilon)

	_, err := NewNFA(def)
	assert.ErrorIs(t, err, ErrEpsilonInAlphabet)
	assert.ErrorIs(t, err, ErrInvalidAutomaton)
}

func TestNewNFA_InvalidStateName(t *testing.T) {
	def := baseDefinition()
	def.States = append(def.States, "x,y")

	_, err := NewNFA(def)
	assert.ErrorIs(t, err, ErrInvalidStateName)
}

func TestNewNFA_MalformedReferences(t *testing.T) {
	def := baseDefinition()
	def.AddTransition("q1", "a", "ghost")
	def.AddTransition("q2", "z", "q0")

	t.Run("Lenient", func(t *testing.T) {
		nfa, err := NewNFA(def)
		require.NoError(t, err)
		assert.Len(t, nfa.Warnings(), 2)
		assert.Equal(t, []string{"ghost"}, nfa.Outgoing("q1", "a"))
		assert.Equal(t, 4, nfa.Size())
		// Undeclared states are not part of the declared set.
		assert.Equal(t, []string{"q0", "q1", "q2"}, nfa.States())
	})

	t.Run("Strict", func(t *testing.T) {
		_, err := NewNFA(def, WithStrictReferences(true))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedReference)
		assert.ErrorIs(t, err, ErrInvalidAutomaton)
		assert.Len(t, ValidationErrors(err), 2)
	})
}

func TestNewNFA_AggregatesFatalErrors(t *testing.T) {
	def := baseDefinition()
	def.InitialState = ""
	def.Alphabet = []string{Epsilon}

	_, err := NewNFA(def)
	require.Error(t, err)

	var aggr *AggregateError
	require.True(t, errors.As(err, &aggr))
	assert.Len(t, aggr.Errors, 2)
	assert.Contains(t, err.Error(), "2 validation errors")
}

func TestNewNFA_DuplicatesCollapse(t *testing.T) {
	def := baseDefinition()
	def.States = []string{"q0", "q1", "q0", "q2"}
	def.Alphabet = []string{"b", "a", "b"}

	nfa, err := NewNFA(def)
	require.NoError(t, err)
	assert.Equal(t, []string{"q0", "q1", "q2"}, nfa.States())
	assert.Equal(t, []string{"b", "a"}, nfa.Alphabet())
}

func TestNFA_CompositeIsSorted(t *testing.T) {
	def := baseDefinition()
	def.States = []string{"q2", "q1", "q0"}

	nfa, err := NewNFA(def)
	require.NoError(t, err)

	c := nfa.Composite(nfa.SetOf("q2", "q0"))
	assert.Equal(t, "q0,q2", c.Key)
	assert.Equal(t, []string{"q0", "q2"}, c.Members)
	assert.True(t, c.Contains("q2"))
	assert.False(t, c.Contains("q1"))
}

func TestNFA_DefinitionRoundTrip(t *testing.T) {
	nfa, err := NewNFA(baseDefinition())
	require.NoError(t, err)

	again, err := NewNFA(nfa.Definition())
	require.NoError(t, err)
	assert.Equal(t, nfa.Outgoing("q0", Epsilon), again.Outgoing("q0", Epsilon))
	assert.Equal(t, nfa.AcceptingStates(), again.AcceptingStates())
	assert.Equal(t, nfa.InitialStates(), again.InitialStates())
}
