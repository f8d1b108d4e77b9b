package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/subset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplesLoadAndConvert(t *testing.T) {
	dir := t.TempDir()
	for _, s := range samples {
		doc, err := render(s)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, s.meta.ID+".md"), doc, 0644))
	}

	conv, err := subset.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ids, err := conv.Definitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty-alphabet", "ends-with-ab", "epsilon-ab", "two-starts"}, ids)

	for _, id := range ids {
		res, err := conv.ConvertByID(ctx, id)
		require.NoError(t, err, id)
		assert.Empty(t, res.Warnings, id)
	}

	res, err := conv.ConvertByID(ctx, "ends-with-ab")
	require.NoError(t, err)
	assert.True(t, res.DFA.Accepts([]string{"b", "a", "a", "b"}))
	assert.False(t, res.DFA.Accepts([]string{"a", "b", "a"}))

	res, err = conv.ConvertByID(ctx, "empty-alphabet")
	require.NoError(t, err)
	assert.Len(t, res.DFA.States, 1)
	assert.Equal(t, "Empty alphabet", res.Definition.Name)
}
