package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSet(t *testing.T) {
	s := NewStateSet(8, 3, 1)

	assert.True(t, s.Add(5))
	assert.False(t, s.Add(5))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, 3, 5}, s.Indices())
	assert.Equal(t, "1.3.5", s.Fingerprint())

	other := NewStateSet(8, 5, 3, 1)
	assert.True(t, s.Equal(other))
	assert.Equal(t, s.Fingerprint(), other.Fingerprint())

	clone := s.Clone()
	clone.Add(7)
	assert.False(t, s.Has(7))
	assert.True(t, s.IsSubsetOf(clone))
	assert.False(t, clone.IsSubsetOf(s))

	assert.True(t, s.Intersects(NewStateSet(8, 3)))
	assert.False(t, s.Intersects(NewStateSet(8, 0, 2)))
}

func TestStateSet_Empty(t *testing.T) {
	var zero StateSet
	assert.True(t, zero.IsEmpty())
	assert.Empty(t, zero.Indices())
	assert.Equal(t, "", zero.Fingerprint())
	assert.True(t, zero.Equal(NewStateSet(4)))
}

func TestDFA_Accepts(t *testing.T) {
	dfa := &DFA{
		Alphabet: []string{"a", "b"},
		States: []CompositeState{
			{Key: "q0,q2", Members: []string{"q0", "q2"}},
			{Key: "q1", Members: []string{"q1"}},
			{Key: "q2", Members: []string{"q2"}},
		},
		Transitions: map[string]map[string]string{
			"q0,q2": {"a": "q1"},
			"q1":    {"b": "q2"},
			"q2":    {},
		},
		Accepting: []string{"q0,q2", "q2"},
	}

	tests := []struct {
		word []string
		want bool
	}{
		{nil, true},
		{[]string{"a"}, false},
		{[]string{"a", "b"}, true},
		{[]string{"b"}, false},
		{[]string{"a", "b", "a"}, false},
		{[]string{"z"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dfa.Accepts(tt.word), "word %v", tt.word)
	}

	assert.Equal(t, 2, dfa.TransitionCount())
	s, ok := dfa.State("q1")
	assert.True(t, ok)
	assert.Equal(t, []string{"q1"}, s.Members)
	_, ok = dfa.State("nope")
	assert.False(t, ok)
}
