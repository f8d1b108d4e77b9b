package tui

import (
	"bytes"
	"os"
	"testing"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdict_Ascii(t *testing.T) {
	assert.Equal(t, "ACCEPT", Verdict(termenv.Ascii, true))
	assert.Equal(t, "REJECT", Verdict(termenv.Ascii, false))
	assert.Equal(t, "warning: x", Warn(termenv.Ascii, "x"))
}

func TestRenderDFA(t *testing.T) {
	dfa := &domain.DFA{
		Alphabet:    []string{"a"},
		States:      []domain.CompositeState{{Key: "q0,q1", Members: []string{"q0", "q1"}}},
		Transitions: map[string]map[string]string{"q0,q1": {"a": "q0,q1"}},
		Accepting:   []string{"q0,q1"},
	}

	out, err := RenderDFA(dfa)
	require.NoError(t, err)
	assert.Contains(t, out, "q0,q1")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestIsTerminal_File(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
}
