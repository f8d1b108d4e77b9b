package tui

import (
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/render"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// If the renderer cannot be built, markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// RenderDFA renders the Markdown table of the DFA for the terminal.
func RenderDFA(dfa *domain.DFA) (string, error) {
	return NewRenderer()("## DFA\n\n" + render.Markdown(dfa))
}
