package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/pkg/adapters/memory"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	loader, err := memory.NewLoader(ports.ContractDefinition())
	require.NoError(t, err)
	conv, err := subset.New("", subset.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(conv)
}

func TestServer_ListsTools(t *testing.T) {
	s := newTestServer(t)

	msg := json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`)
	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{"convert_nfa", "convert_definition", "check_word", "list_definitions"} {
		assert.Contains(t, string(data), name)
	}
}

func TestHandleConvert_Form(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleConvert(context.Background(), mcp.CallToolRequest{}, ConvertArgs{
		States:      "q0,q1,q2",
		Alphabet:    "a,b",
		Transitions: "q0:a->q1,q1:b->q2,q0:ε->q2",
		Initial:     "q0",
		Accepting:   "q2",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.DFA.States, 3)
	assert.Equal(t, "q0,q2", resp.DFA.Start().Key)
	assert.Contains(t, resp.Rendering, "DFA Transition Table:")
}

func TestHandleConvert_Definition(t *testing.T) {
	s := newTestServer(t)

	def, err := json.Marshal(ports.ContractDefinition())
	require.NoError(t, err)

	resp, err := s.handleConvert(context.Background(), mcp.CallToolRequest{}, ConvertArgs{
		Definition: string(def),
		Format:     "json",
	})
	require.NoError(t, err)
	assert.True(t, resp.DFA.Accepts([]string{"a", "b"}))
	assert.Contains(t, resp.Rendering, `"states"`)
}

func TestHandleConvert_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleConvert(ctx, mcp.CallToolRequest{}, ConvertArgs{Definition: "{not json"})
	assert.Error(t, err)

	_, err = s.handleConvert(ctx, mcp.CallToolRequest{}, ConvertArgs{States: "q0", Alphabet: "a", Transitions: "q0:a->q0", Format: "pdf"})
	assert.Error(t, err)

	_, err = s.handleConvert(ctx, mcp.CallToolRequest{}, ConvertArgs{States: "q0", Alphabet: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidAutomaton)
}

func TestHandleConvertDefinition(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleConvertDefinition(ctx, mcp.CallToolRequest{}, DefinitionArgs{ID: ports.ContractDefinitionID, Format: "edges"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Rendering)

	_, err = s.handleConvertDefinition(ctx, mcp.CallToolRequest{}, DefinitionArgs{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestHandleCheckWord(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		word string
		want bool
	}{
		{word: "", want: true},
		{word: "a,b", want: true},
		{word: "a, b", want: true},
		{word: "a", want: false},
		{word: "b", want: false},
	}
	for _, tt := range tests {
		resp, err := s.handleCheckWord(ctx, mcp.CallToolRequest{}, DefinitionArgs{ID: ports.ContractDefinitionID, Word: tt.word})
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Accepted, "word %q", tt.word)
	}
}

// brokenConverter serves results that decoded without a DFA.
type brokenConverter struct {
	Converter
}

func (brokenConverter) ConvertByID(_ context.Context, id string) (*domain.Result, error) {
	return &domain.Result{ID: id}, nil
}

func TestHandlers_RejectResultWithoutDFA(t *testing.T) {
	s := NewServer(brokenConverter{})
	ctx := context.Background()

	_, err := s.handleConvertDefinition(ctx, mcp.CallToolRequest{}, DefinitionArgs{ID: "broken"})
	assert.ErrorIs(t, err, domain.ErrCorruptResult)

	_, err = s.handleCheckWord(ctx, mcp.CallToolRequest{}, DefinitionArgs{ID: "broken", Word: "a"})
	assert.ErrorIs(t, err, domain.ErrCorruptResult)
}
