package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/notation"
	"github.com/aretw0/subset/pkg/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConvertResponse is the structured output of the conversion tools.
type ConvertResponse struct {
	ID        string      `json:"id" jsonschema_description:"Content-derived result ID"`
	DFA       *domain.DFA `json:"dfa" jsonschema_description:"The deterministic automaton"`
	Rendering string      `json:"rendering" jsonschema_description:"The DFA in the requested text format"`
	Warnings  []string    `json:"warnings,omitempty" jsonschema_description:"Non-fatal definition problems"`
}

// CheckResponse is the structured output of check_word.
type CheckResponse struct {
	Word     []string `json:"word" jsonschema_description:"The symbols that were run"`
	Accepted bool     `json:"accepted" jsonschema_description:"Whether the DFA accepts the word"`
}

// ConvertArgs are the arguments of convert_nfa. Either Definition or the form fields are used.
type ConvertArgs struct {
	Definition  string `json:"definition,omitempty"`
	States      string `json:"states,omitempty"`
	Alphabet    string `json:"alphabet,omitempty"`
	Transitions string `json:"transitions,omitempty"`
	Initial     string `json:"initial,omitempty"`
	Accepting   string `json:"accepting,omitempty"`
	Format      string `json:"format,omitempty"`
}

// DefinitionArgs are the arguments of convert_definition and check_word.
type DefinitionArgs struct {
	ID     string `json:"id"`
	Format string `json:"format,omitempty"`
	Word   string `json:"word,omitempty"`
}

// Converter defines what the MCP server needs from subset.Converter.
type Converter interface {
	Convert(ctx context.Context, def domain.Definition) (*domain.Result, error)
	ConvertForm(ctx context.Context, form notation.Form) (*domain.Result, error)
	ConvertByID(ctx context.Context, id string) (*domain.Result, error)
	Definitions(ctx context.Context) ([]string, error)
}

// Server exposes a Converter as an MCP Server.
type Server struct {
	conv      Converter
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(conv Converter) *Server {
	s := &Server{
		conv:      conv,
		mcpServer: server.NewMCPServer("subset-mcp", strings.TrimSpace(subset.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func formatOption() mcp.ToolOption {
	names := make([]string, 0, len(render.Formats))
	for _, f := range render.Formats {
		names = append(names, string(f))
	}
	return mcp.WithString("format",
		mcp.Description("Rendering format (default: table)"),
		mcp.Enum(names...),
	)
}

func (s *Server) registerTools() {
	// TOOL: convert_nfa
	convertTool := mcp.NewTool("convert_nfa",
		mcp.WithDescription("Convert an NFA to an equivalent DFA with the subset construction. "+
			"Pass either a JSON definition or the five comma-separated form fields."),
		mcp.WithString("definition", mcp.Description("JSON definition: states, alphabet, transitions, initial_state, accepting_states")),
		mcp.WithString("states", mcp.Description("Comma-separated states, e.g. q0,q1,q2")),
		mcp.WithString("alphabet", mcp.Description("Comma-separated symbols, e.g. a,b")),
		mcp.WithString("transitions", mcp.Description("Comma-separated from:symbol->to entries; ε marks an empty move")),
		mcp.WithString("initial", mcp.Description("Initial state")),
		mcp.WithString("accepting", mcp.Description("Comma-separated accepting states")),
		formatOption(),
		mcp.WithOutputSchema[ConvertResponse](),
	)
	s.mcpServer.AddTool(convertTool, mcp.NewStructuredToolHandler(s.handleConvert))

	// TOOL: convert_definition
	definitionTool := mcp.NewTool("convert_definition",
		mcp.WithDescription("Convert a stored NFA definition by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Definition ID, as returned by list_definitions")),
		formatOption(),
		mcp.WithOutputSchema[ConvertResponse](),
	)
	s.mcpServer.AddTool(definitionTool, mcp.NewStructuredToolHandler(s.handleConvertDefinition))

	// TOOL: check_word
	checkTool := mcp.NewTool("check_word",
		mcp.WithDescription("Run a word through the DFA of a stored definition."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Definition ID")),
		mcp.WithString("word", mcp.Description("Comma-separated symbols; empty for the empty word")),
		mcp.WithOutputSchema[CheckResponse](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheckWord))

	// TOOL: list_definitions
	s.mcpServer.AddTool(mcp.NewTool("list_definitions",
		mcp.WithDescription("List the IDs of stored NFA definitions."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.conv.Definitions(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleConvert(ctx context.Context, request mcp.CallToolRequest, args ConvertArgs) (ConvertResponse, error) {
	format, err := parseFormat(args.Format)
	if err != nil {
		return ConvertResponse{}, err
	}

	var res *domain.Result
	if args.Definition != "" {
		var def domain.Definition
		if err := json.Unmarshal([]byte(args.Definition), &def); err != nil {
			return ConvertResponse{}, fmt.Errorf("invalid definition: %w", err)
		}
		res, err = s.conv.Convert(ctx, def)
	} else {
		res, err = s.conv.ConvertForm(ctx, notation.Form{
			States:      args.States,
			Alphabet:    args.Alphabet,
			Transitions: args.Transitions,
			Initial:     args.Initial,
			Accepting:   args.Accepting,
		})
	}
	if err != nil {
		slog.Warn("MCP convert_nfa: conversion failed", "error", err)
		return ConvertResponse{}, fmt.Errorf("conversion failed: %w", err)
	}
	return respond(res, format)
}

func (s *Server) handleConvertDefinition(ctx context.Context, request mcp.CallToolRequest, args DefinitionArgs) (ConvertResponse, error) {
	format, err := parseFormat(args.Format)
	if err != nil {
		return ConvertResponse{}, err
	}
	res, err := s.conv.ConvertByID(ctx, args.ID)
	if err != nil {
		return ConvertResponse{}, fmt.Errorf("conversion of %s failed: %w", args.ID, err)
	}
	return respond(res, format)
}

func (s *Server) handleCheckWord(ctx context.Context, request mcp.CallToolRequest, args DefinitionArgs) (CheckResponse, error) {
	res, err := s.conv.ConvertByID(ctx, args.ID)
	if err != nil {
		return CheckResponse{}, fmt.Errorf("conversion of %s failed: %w", args.ID, err)
	}
	if err := res.Check(); err != nil {
		return CheckResponse{}, err
	}
	word := notation.ParseList(strings.ReplaceAll(args.Word, " ", ""))
	if word == nil {
		word = []string{}
	}
	return CheckResponse{Word: word, Accepted: res.DFA.Accepts(word)}, nil
}

func parseFormat(name string) (render.Format, error) {
	if name == "" {
		return render.FormatTable, nil
	}
	return render.ParseFormat(name)
}

func respond(res *domain.Result, format render.Format) (ConvertResponse, error) {
	if err := res.Check(); err != nil {
		return ConvertResponse{}, err
	}
	text, err := render.Render(res.DFA, format)
	if err != nil {
		return ConvertResponse{}, err
	}
	return ConvertResponse{
		ID:        res.ID,
		DFA:       res.DFA,
		Rendering: text,
		Warnings:  res.Warnings,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: subset://definitions
	s.mcpServer.AddResource(mcp.NewResource("subset://definitions", "Stored NFA Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.conv.Definitions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list definitions: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "subset://definitions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
