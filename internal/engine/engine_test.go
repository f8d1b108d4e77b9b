package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioA(t *testing.T) *domain.NFA {
	t.Helper()
	def := domain.Definition{
		States:          []string{"q0", "q1", "q2"},
		Alphabet:        []string{"a", "b"},
		InitialState:    "q0",
		AcceptingStates: []string{"q2"},
	}
	def.AddTransition("q0", "a", "q1")
	def.AddTransition("q1", "b", "q2")
	def.AddTransition("q0", domain.Epsilon, "q2")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)
	return nfa
}

func convert(t *testing.T, nfa *domain.NFA, opts ...Option) *domain.DFA {
	t.Helper()
	dfa, err := New(nfa, opts...).Convert(context.Background())
	require.NoError(t, err)
	return dfa
}

func TestConvert_ScenarioA(t *testing.T) {
	dfa := convert(t, scenarioA(t))

	require.Len(t, dfa.States, 3)
	assert.Equal(t, "q0,q2", dfa.Start().Key)
	assert.Equal(t, []string{"q0", "q2"}, dfa.Start().Members)

	next, ok := dfa.Next("q0,q2", "a")
	require.True(t, ok)
	assert.Equal(t, "q1", next)

	_, ok = dfa.Next("q0,q2", "b")
	assert.False(t, ok, "empty move must not record a transition")

	next, ok = dfa.Next("q1", "b")
	require.True(t, ok)
	assert.Equal(t, "q2", next)

	assert.True(t, dfa.IsAccepting("q0,q2"))
	assert.True(t, dfa.IsAccepting("q2"))
	assert.False(t, dfa.IsAccepting("q1"))
	assert.Equal(t, []string{"q0,q2", "q2"}, dfa.Accepting)

	// q2 has no outgoing transitions but still owns a row.
	row, ok := dfa.Transitions["q2"]
	require.True(t, ok)
	assert.Empty(t, row)
}

func TestConvert_EmptyAlphabet(t *testing.T) {
	nfa, err := domain.NewNFA(domain.Definition{
		States:          []string{"q0"},
		InitialState:    "q0",
		AcceptingStates: []string{"q0"},
	})
	require.NoError(t, err)

	dfa := convert(t, nfa)
	require.Len(t, dfa.States, 1)
	assert.Equal(t, "q0", dfa.Start().Key)
	assert.Empty(t, dfa.Transitions["q0"])
	assert.Equal(t, []string{"q0"}, dfa.Accepting)
	assert.True(t, dfa.Accepts(nil))
}

func TestConvert_DedupDifferentConstructionOrder(t *testing.T) {
	def := domain.Definition{
		States:          []string{"q0", "q1", "q2"},
		Alphabet:        []string{"a", "b"},
		InitialState:    "q0",
		AcceptingStates: []string{"q2"},
	}
	// {q1,q2} is reached on 'a' via q1 first, and on 'b' via q2 first.
	def.AddTransition("q0", "a", "q1")
	def.AddTransition("q1", domain.Epsilon, "q2")
	def.AddTransition("q0", "b", "q2")
	def.AddTransition("q2", domain.Epsilon, "q1")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)
	dfa := convert(t, nfa)

	require.Len(t, dfa.States, 2)
	a, _ := dfa.Next("q0", "a")
	b, _ := dfa.Next("q0", "b")
	assert.Equal(t, "q1,q2", a)
	assert.Equal(t, a, b)

	seen := make(map[string]bool)
	for _, s := range dfa.States {
		assert.False(t, seen[s.Key], "duplicate composite state %s", s.Key)
		seen[s.Key] = true
	}
}

func TestConvert_MultipleInitialStates(t *testing.T) {
	def := domain.Definition{
		States:          []string{"p", "q", "r"},
		Alphabet:        []string{"x"},
		InitialState:    "p",
		InitialStates:   []string{"q"},
		AcceptingStates: []string{"r"},
	}
	def.AddTransition("q", "x", "r")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)
	dfa := convert(t, nfa)

	assert.Equal(t, "p,q", dfa.Start().Key)
	assert.True(t, dfa.Accepts([]string{"x"}))
}

func TestConvert_UnreachableAccepting(t *testing.T) {
	def := domain.Definition{
		States:          []string{"q0", "q1", "dead"},
		Alphabet:        []string{"a"},
		InitialState:    "q0",
		AcceptingStates: []string{"dead"},
	}
	def.AddTransition("q0", "a", "q1")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)
	dfa := convert(t, nfa)

	assert.Empty(t, dfa.Accepting)
	assert.Len(t, dfa.States, 2)
}

func TestConvert_StateLimit(t *testing.T) {
	_, err := New(scenarioA(t), WithStateLimit(2)).Convert(context.Background())
	assert.ErrorIs(t, err, domain.ErrStateLimitExceeded)

	_, err = New(scenarioA(t), WithStateLimit(3)).Convert(context.Background())
	assert.NoError(t, err)
}

func TestConvert_EngineIsSingleUse(t *testing.T) {
	eng := New(scenarioA(t))
	_, err := eng.Convert(context.Background())
	require.NoError(t, err)

	_, err = eng.Convert(context.Background())
	assert.Error(t, err)
}

func TestConvert_Hooks(t *testing.T) {
	var discovered []string
	var transitions int
	var done *domain.ConversionEvent

	hooks := domain.ConversionHooks{
		OnStateDiscovered: func(_ context.Context, e *domain.StateEvent) {
			discovered = append(discovered, e.State.Key)
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			transitions++
		},
		OnConversionDone: func(_ context.Context, e *domain.ConversionEvent) {
			done = e
		},
	}

	dfa := convert(t, scenarioA(t), WithHooks(hooks))

	assert.Equal(t, []string{"q0,q2", "q1", "q2"}, discovered)
	assert.Equal(t, dfa.TransitionCount(), transitions)
	require.NotNil(t, done)
	assert.NoError(t, done.Err)
	assert.Equal(t, 3, done.States)
	assert.Equal(t, 2, done.Accepting)
}

func TestEpsilonClosure_Properties(t *testing.T) {
	def := domain.Definition{
		States:       []string{"a", "b", "c", "d", "e"},
		Alphabet:     []string{"0"},
		InitialState: "a",
	}
	def.AddTransition("a", domain.Epsilon, "b")
	def.AddTransition("b", domain.Epsilon, "c")
	def.AddTransition("c", domain.Epsilon, "a")
	def.AddTransition("d", domain.Epsilon, "e")
	def.AddTransition("a", "0", "d")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)
	eng := New(nfa)

	seeds := [][]string{{"a"}, {"d"}, {"e"}, {"a", "d"}, {}}
	for _, seed := range seeds {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			s := nfa.SetOf(seed...)
			closure := eng.EpsilonClosure(s)

			assert.True(t, s.IsSubsetOf(closure), "closure must contain its seed")
			assert.True(t, eng.EpsilonClosure(closure).Equal(closure), "closure must be idempotent")
		})
	}

	assert.Equal(t, []string{"a", "b", "c"}, nfa.Members(eng.EpsilonClosure(nfa.SetOf("a"))))
	assert.Equal(t, []string{"d", "e"}, nfa.Members(eng.EpsilonClosure(nfa.SetOf("d"))))
}

func TestEpsilonClosure_DoesNotModifySeed(t *testing.T) {
	nfa := scenarioA(t)
	eng := New(nfa)
	seed := nfa.SetOf("q0")

	_ = eng.EpsilonClosure(seed)
	assert.Equal(t, 1, seed.Len())
}

func TestMove(t *testing.T) {
	def := domain.Definition{
		States:       []string{"q0", "q1", "q2"},
		Alphabet:     []string{"a"},
		InitialState: "q0",
	}
	def.AddTransition("q0", "a", "q1")
	def.AddTransition("q0", "a", "q2")
	def.AddTransition("q1", "a", "q2")
	def.AddTransition("q1", domain.Epsilon, "q0")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)
	eng := New(nfa)

	assert.Equal(t, []string{"q1", "q2"}, nfa.Members(eng.Move(nfa.SetOf("q0", "q1"), "a")))
	assert.True(t, eng.Move(nfa.SetOf("q2"), "a").IsEmpty())
	assert.True(t, eng.Move(nfa.SetOf("q1"), "b").IsEmpty())
}

func TestConvert_Deterministic(t *testing.T) {
	nfa := randomNFA(rand.New(rand.NewPCG(7, 11)), 6, []string{"a", "b"})

	first := convert(t, nfa)
	for i := 0; i < 5; i++ {
		again := convert(t, nfa)
		assert.Equal(t, first, again)
	}
}

func TestConvert_NoOrphanTransitions(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		dfa := convert(t, randomNFA(rng, 5, []string{"a", "b", "c"}))

		keys := make(map[string]bool)
		for _, s := range dfa.States {
			keys[s.Key] = true
			_, ok := dfa.Transitions[s.Key]
			assert.True(t, ok, "state %s has no transition row", s.Key)
		}
		for from, row := range dfa.Transitions {
			assert.True(t, keys[from])
			for _, to := range row {
				assert.True(t, keys[to], "orphan target %s", to)
			}
		}
	}
}

func TestConvert_LanguageEquivalence(t *testing.T) {
	alphabet := []string{"a", "b"}
	rng := rand.New(rand.NewPCG(42, 1337))

	for i := 0; i < 30; i++ {
		nfa := randomNFA(rng, 2+rng.IntN(5), alphabet)
		dfa := convert(t, nfa)

		for _, w := range Words(alphabet, 6) {
			require.Equal(t, Simulate(nfa, w), dfa.Accepts(w), "nfa #%d disagrees on %v", i, w)
		}
	}
}

func TestSimulate(t *testing.T) {
	nfa := scenarioA(t)

	tests := []struct {
		word []string
		want bool
	}{
		{word: []string{}, want: true},
		{word: []string{"a", "b"}, want: true},
		{word: []string{"a"}, want: false},
		{word: []string{"b"}, want: false},
		{word: []string{"a", "b", "a"}, want: false},
		{word: []string{"c"}, want: false},
		{word: []string{domain.Epsilon}, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Simulate(nfa, tt.word), "word %v", tt.word)
	}
}

func TestSimulate_EpsilonChainsAndMultipleStarts(t *testing.T) {
	def := domain.Definition{
		States:          []string{"s", "t", "u", "v", "w"},
		Alphabet:        []string{"x"},
		InitialStates:   []string{"s", "v"},
		AcceptingStates: []string{"u"},
	}
	def.AddTransition("s", domain.Epsilon, "t")
	def.AddTransition("t", domain.Epsilon, "s")
	def.AddTransition("t", "x", "w")
	def.AddTransition("w", domain.Epsilon, "u")
	def.AddTransition("v", "x", "v")

	nfa, err := domain.NewNFA(def)
	require.NoError(t, err)

	assert.False(t, Simulate(nfa, []string{}))
	assert.True(t, Simulate(nfa, []string{"x"}))
	assert.False(t, Simulate(nfa, []string{"x", "x"}))
}

func TestWords(t *testing.T) {
	words := Words([]string{"a", "b"}, 2)
	assert.Len(t, words, 1+2+4)
	assert.Equal(t, []string{}, words[0])
	assert.Equal(t, []string{"b", "b"}, words[len(words)-1])
}

func randomNFA(rng *rand.Rand, size int, alphabet []string) *domain.NFA {
	states := make([]string, size)
	for i := range states {
		states[i] = fmt.Sprintf("s%d", i)
	}
	def := domain.Definition{
		States:       states,
		Alphabet:     alphabet,
		InitialState: states[0],
	}
	symbols := append([]string{domain.Epsilon}, alphabet...)
	for _, from := range states {
		for _, sym := range symbols {
			for _, to := range states {
				if rng.IntN(4) == 0 {
					def.AddTransition(from, sym, to)
				}
			}
		}
		if rng.IntN(3) == 0 {
			def.AcceptingStates = append(def.AcceptingStates, from)
		}
	}
	nfa, err := domain.NewNFA(def)
	if err != nil {
		panic(err)
	}
	return nfa
}
