package subset_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/internal/testutils"
	"github.com/aretw0/subset/pkg/adapters/memory"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/notation"
	"github.com/aretw0/subset/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	conv, err := subset.New("")
	require.NoError(t, err)

	res, err := conv.Convert(context.Background(), ports.ContractDefinition())
	require.NoError(t, err)

	assert.Equal(t, "q0,q2", res.DFA.Start().Key)
	assert.Equal(t, []string{"q0,q2", "q2"}, res.DFA.Accepting)
	assert.True(t, res.DFA.Accepts([]string{"a", "b"}))
	assert.True(t, res.DFA.Accepts(nil))
	assert.False(t, res.DFA.Accepts([]string{"b"}))
	assert.Empty(t, res.Warnings)
	assert.Equal(t, ports.ContractDefinitionID, res.Definition.ID)
	assert.False(t, res.CreatedAt.IsZero())
}

func TestConverter_Convert_Invalid(t *testing.T) {
	var done []*domain.ConversionEvent
	conv, err := subset.New("", subset.WithHooks(domain.ConversionHooks{
		OnConversionDone: func(_ context.Context, e *domain.ConversionEvent) { done = append(done, e) },
	}))
	require.NoError(t, err)

	res, err := conv.Convert(context.Background(), domain.Definition{States: []string{"q0"}})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidAutomaton)
	assert.ErrorIs(t, err, domain.ErrNoInitialState)

	require.Len(t, done, 1)
	assert.ErrorIs(t, done[0].Err, domain.ErrNoInitialState)
}

func TestConverter_StrictReferences(t *testing.T) {
	def := ports.ContractDefinition()
	def.AddTransition("q1", "a", "ghost")

	lenient, err := subset.New("")
	require.NoError(t, err)
	res, err := lenient.Convert(context.Background(), def)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)

	strict, err := subset.New("", subset.WithStrictReferences(true))
	require.NoError(t, err)
	_, err = strict.Convert(context.Background(), def)
	assert.ErrorIs(t, err, domain.ErrMalformedReference)
}

func TestConverter_StateLimit(t *testing.T) {
	conv, err := subset.New("", subset.WithStateLimit(2))
	require.NoError(t, err)

	_, err = conv.Convert(context.Background(), ports.ContractDefinition())
	assert.ErrorIs(t, err, domain.ErrStateLimitExceeded)
}

func TestConverter_ConvertForm(t *testing.T) {
	conv, err := subset.New("")
	require.NoError(t, err)

	res, err := conv.ConvertForm(context.Background(), notation.Form{
		States:      "q0, q1, q2",
		Alphabet:    "a,b",
		Transitions: "q0:a->q1, q1:b->q2, q0:ε->q2",
		Initial:     "q0",
		Accepting:   "q2",
	})
	require.NoError(t, err)
	assert.Len(t, res.DFA.States, 3)

	_, err = conv.ConvertForm(context.Background(), notation.Form{
		States:      "q0",
		Transitions: "q0-a-q1",
		Initial:     "q0",
	})
	assert.ErrorIs(t, err, notation.ErrSyntax)
}

func TestConverter_ConvertByID_Caches(t *testing.T) {
	loader, err := memory.NewLoader(ports.ContractDefinition())
	require.NoError(t, err)
	store := memory.NewStore()

	conversions := 0
	conv, err := subset.New("",
		subset.WithLoader(loader),
		subset.WithStore(store),
		subset.WithHooks(domain.ConversionHooks{
			OnConversionDone: func(context.Context, *domain.ConversionEvent) { conversions++ },
		}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := conv.ConvertByID(ctx, ports.ContractDefinitionID)
	require.NoError(t, err)
	second, err := conv.ConvertByID(ctx, ports.ContractDefinitionID)
	require.NoError(t, err)

	assert.Equal(t, 1, conversions, "second call must be served from the store")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.DFA, second.DFA)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, ids)

	_, err = conv.ConvertByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestConverter_NoLoader(t *testing.T) {
	conv, err := subset.New("")
	require.NoError(t, err)

	_, err = conv.ConvertByID(context.Background(), "x")
	assert.ErrorIs(t, err, subset.ErrNoLoader)
	_, err = conv.Definitions(context.Background())
	assert.ErrorIs(t, err, subset.ErrNoLoader)
	assert.NoError(t, conv.Save(context.Background(), &domain.Result{ID: "x"}))
}

func TestConverter_LoamRepository(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"ab.md": testutils.ContractMarkdown,
	})

	conv, err := subset.New(dir)
	require.NoError(t, err)
	assert.NotNil(t, conv.Loader())

	ids, err := conv.Definitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, ids)

	res, err := conv.ConvertByID(context.Background(), "ab")
	require.NoError(t, err)
	assert.Equal(t, "Contract NFA", res.Definition.Name)
	assert.True(t, res.DFA.Accepts([]string{"a", "b"}))
}

func TestResultID(t *testing.T) {
	def := ports.ContractDefinition()

	a, err := subset.ResultID(def)
	require.NoError(t, err)
	b, err := subset.ResultID(ports.ContractDefinition())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Regexp(t, `^contract-nfa-[0-9a-f]{12}$`, a)

	def.AddTransition("q2", "a", "q2")
	c, err := subset.ResultID(def)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	nested, err := subset.ResultID(domain.Definition{ID: "group/nfa"})
	require.NoError(t, err)
	assert.Regexp(t, `^group_nfa-`, nested)

	anon, err := subset.ResultID(domain.Definition{})
	require.NoError(t, err)
	assert.Regexp(t, `^nfa-`, anon)

	for _, id := range []string{"../up", `..\up`, ".."} {
		hostile, err := subset.ResultID(domain.Definition{ID: id})
		require.NoError(t, err)
		assert.NoError(t, domain.ValidateResultID(hostile), "%q -> %q", id, hostile)
	}
}

func TestConverter_ConcurrentUse(t *testing.T) {
	conv, err := subset.New("")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			res, err := conv.Convert(ctx, ports.ContractDefinition())
			if err == nil && len(res.DFA.States) != 3 {
				err = errors.New("unexpected state count")
			}
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(t, <-errs)
	}
}
