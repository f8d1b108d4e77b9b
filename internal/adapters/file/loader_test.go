package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/subset/internal/adapters/file"
	"github.com/aretw0/subset/internal/testutils"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractYAML = `name: Contract NFA
states: [q0, q1, q2]
alphabet: [a, b]
transitions:
  q0:
    a: [q1]
    ε: [q2]
  q1:
    b: [q2]
initial_state: q0
accepting_states: [q2]
`

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		ports.ContractDefinitionID + ".yaml": contractYAML,
		"nested/other.yml":                   "states: [s]\ninitial_state: s\n",
		"README.md":                          "not a definition",
	})

	ports.RunDefinitionLoaderContract(t, file.NewLoader(dir))
}

func TestFileLoader_JSONAndNestedIDs(t *testing.T) {
	dir := t.TempDir()
	data, err := json.Marshal(ports.ContractDefinition())
	require.NoError(t, err)
	testutils.WriteFiles(t, dir, map[string]string{
		"group/nfa.json":          string(data),
		".subset/results/r1.json": `{"id":"r1"}`,
	})

	loader := file.NewLoader(dir)
	ids, err := loader.ListDefinitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"group/nfa"}, ids)

	def, err := loader.GetDefinition(context.Background(), "group/nfa")
	require.NoError(t, err)
	assert.Equal(t, "group/nfa", def.ID, "the path wins over the document id")
	assert.Equal(t, ports.ContractDefinition().Transitions, def.Transitions)
}

func TestFileLoader_Collision(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"dup.yaml": "states: [a]\n",
		"dup.json": `{"states": ["a"]}`,
	})

	_, err := file.NewLoader(dir).ListDefinitions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestReadDefinition(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "a.yaml")
		require.NoError(t, os.WriteFile(path, []byte(contractYAML), 0644))
		def, err := file.ReadDefinition(path)
		require.NoError(t, err)
		assert.Equal(t, "Contract NFA", def.Name)
		assert.Equal(t, []string{"q0"}, def.Initials())
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
		_, err := file.ReadDefinition(path)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := file.ReadDefinition(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestFileLoader_NotFound(t *testing.T) {
	_, err := file.NewLoader(t.TempDir()).GetDefinition(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}
