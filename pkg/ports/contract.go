package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractDefinitionID is the ID under which loaders must expose ContractDefinition
// before running RunDefinitionLoaderContract.
const ContractDefinitionID = "contract-nfa"

// ContractDefinition is the fixture used by the contract suites:
// q0:a->q1, q1:b->q2, q0:ε->q2 with q2 accepting.
func ContractDefinition() domain.Definition {
	def := domain.Definition{
		ID:              ContractDefinitionID,
		Name:            "Contract NFA",
		States:          []string{"q0", "q1", "q2"},
		Alphabet:        []string{"a", "b"},
		InitialState:    "q0",
		AcceptingStates: []string{"q2"},
	}
	def.AddTransition("q0", "a", "q1")
	def.AddTransition("q1", "b", "q2")
	def.AddTransition("q0", domain.Epsilon, "q2")
	return def
}

func contractResult(id string) *domain.Result {
	return &domain.Result{
		ID:         id,
		Definition: ContractDefinition(),
		DFA: &domain.DFA{
			Alphabet: []string{"a", "b"},
			States: []domain.CompositeState{
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
		},
		Warnings:  []string{"example warning"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	resultID := "contract-test-result-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		result := contractResult(resultID)

		err := store.Save(ctx, result)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, resultID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, result.ID, loaded.ID)
		assert.Equal(t, result.DFA, loaded.DFA)
		assert.Equal(t, result.Warnings, loaded.Warnings)
		assert.Equal(t, result.Definition.Transitions, loaded.Definition.Transitions)
		assert.True(t, result.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, resultID)
		require.NoError(t, err)
		loaded.DFA.Accepting = append(loaded.DFA.Accepting, "tampered")

		again, err := store.Load(ctx, resultID)
		require.NoError(t, err)
		assert.NotContains(t, again.DFA.Accepting, "tampered")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+resultID)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, contractResult(resultID))
		require.NoError(t, err)

		err = store.Delete(ctx, resultID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, resultID)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")

		assert.NoError(t, store.Delete(ctx, resultID), "Deleting twice should not fail")
	})

	t.Run("Invalid ID Is Rejected", func(t *testing.T) {
		for _, id := range []string{"", "../x", "a/b", `a\b`, "..", "/abs"} {
			bad := contractResult(id)
			assert.ErrorIs(t, store.Save(ctx, bad), domain.ErrInvalidResultID, "Save %q", id)

			_, err := store.Load(ctx, id)
			assert.ErrorIs(t, err, domain.ErrInvalidResultID, "Load %q", id)

			assert.ErrorIs(t, store.Delete(ctx, id), domain.ErrInvalidResultID, "Delete %q", id)
		}
		assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidResultID)
	})

	t.Run("List", func(t *testing.T) {
		id1 := resultID + "-1"
		id2 := resultID + "-2"
		_ = store.Save(ctx, contractResult(id1))
		_ = store.Save(ctx, contractResult(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunDefinitionLoaderContract verifies a DefinitionLoader that has been seeded with
// ContractDefinition under ContractDefinitionID.
func RunDefinitionLoaderContract(t *testing.T, loader DefinitionLoader) {
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		def, err := loader.GetDefinition(ctx, ContractDefinitionID)
		require.NoError(t, err)

		want := ContractDefinition()
		assert.Equal(t, ContractDefinitionID, def.ID)
		assert.Equal(t, want.States, def.States)
		assert.Equal(t, want.Alphabet, def.Alphabet)
		assert.Equal(t, want.Initials(), def.Initials())
		assert.Equal(t, want.AcceptingStates, def.AcceptingStates)
		assert.Equal(t, want.Transitions, def.Transitions)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := loader.GetDefinition(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := loader.ListDefinitions(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, ContractDefinitionID)
		assert.IsNonDecreasing(t, ids)
	})
}
