package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/subset/pkg/adapters/memory"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	other := domain.Definition{ID: "another", States: []string{"s"}, InitialState: "s"}
	loader, err := memory.NewLoader(other, ports.ContractDefinition())
	require.NoError(t, err)

	ports.RunDefinitionLoaderContract(t, loader)
}

func TestInMemoryLoader_FromJSON(t *testing.T) {
	loader, err := memory.NewFromJSON(map[string]string{
		ports.ContractDefinitionID: `{
			"states": ["q0", "q1", "q2"],
			"alphabet": ["a", "b"],
			"transitions": {"q0": {"a": ["q1"], "ε": ["q2"]}, "q1": {"b": ["q2"]}},
			"initial_state": "q0",
			"accepting_states": ["q2"]
		}`,
	})
	require.NoError(t, err)

	ports.RunDefinitionLoaderContract(t, loader)
}

func TestInMemoryLoader_Errors(t *testing.T) {
	_, err := memory.NewLoader(domain.Definition{Name: "no id"})
	assert.Error(t, err)

	_, err = memory.NewFromJSON(map[string]string{"bad": "{"})
	assert.Error(t, err)
}

func TestInMemoryLoader_ReturnsCopies(t *testing.T) {
	loader, err := memory.NewLoader(ports.ContractDefinition())
	require.NoError(t, err)

	ctx := context.Background()
	def, err := loader.GetDefinition(ctx, ports.ContractDefinitionID)
	require.NoError(t, err)
	def.AddTransition("q2", "a", "q0")

	again, err := loader.GetDefinition(ctx, ports.ContractDefinitionID)
	require.NoError(t, err)
	assert.NotContains(t, again.Transitions, "q2")
}
