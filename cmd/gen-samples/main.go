// Command gen-samples writes sample NFA definitions as Markdown documents with
// YAML frontmatter, ready for the Loam loader.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// frontmatter mirrors the keys read by the Loam definition loader.
type frontmatter struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	States          []string `yaml:"states,flow"`
	Alphabet        []string `yaml:"alphabet,flow"`
	Transitions     []string `yaml:"transitions,omitempty"`
	InitialState    string   `yaml:"initial_state"`
	InitialStates   []string `yaml:"initial_states,flow,omitempty"`
	AcceptingStates []string `yaml:"accepting_states,flow"`
}

type sample struct {
	meta frontmatter
	body string
}

var samples = []sample{
	{
		meta: frontmatter{
			ID:              "epsilon-ab",
			Name:            "Epsilon shortcut",
			States:          []string{"q0", "q1", "q2"},
			Alphabet:        []string{"a", "b"},
			Transitions:     []string{"q0:a->q1", "q1:b->q2", "q0:ε->q2"},
			InitialState:    "q0",
			AcceptingStates: []string{"q2"},
		},
		body: "Accepts \"ab\" and the empty word. The start state {q0,q2} is already accepting,\nand {q1} has no move on \"a\".",
	},
	{
		meta: frontmatter{
			ID:              "empty-alphabet",
			Name:            "Empty alphabet",
			States:          []string{"q0"},
			Alphabet:        []string{},
			InitialState:    "q0",
			AcceptingStates: []string{"q0"},
		},
		body: "A single accepting state and no symbols: the DFA accepts only the empty word.",
	},
	{
		meta: frontmatter{
			ID:       "ends-with-ab",
			Name:     "Ends with ab",
			States:   []string{"q0", "q1", "q2"},
			Alphabet: []string{"a", "b"},
			Transitions: []string{
				"q0:a->q0", "q0:b->q0", "q0:a->q1", "q1:b->q2",
			},
			InitialState:    "q0",
			AcceptingStates: []string{"q2"},
		},
		body: "Guesses where the final \"ab\" starts.",
	},
	{
		meta: frontmatter{
			ID:              "two-starts",
			Name:            "Two start states",
			States:          []string{"p0", "p1", "r0", "r1"},
			Alphabet:        []string{"0", "1"},
			Transitions:     []string{"p0:0->p1", "p1:0->p0", "r0:1->r1", "r1:1->r0"},
			InitialState:    "p0",
			InitialStates:   []string{"r0"},
			AcceptingStates: []string{"p0", "r0"},
		},
		body: "Union of \"even number of 0s\" and \"even number of 1s\" over words that use one digit only.",
	},
}

func main() {
	targetDir := "examples/definitions"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		fail(err)
	}

	fmt.Printf("Generating sample definitions in: %s\n", targetDir)

	for _, s := range samples {
		doc, err := render(s)
		if err != nil {
			fail(err)
		}
		path := filepath.Join(targetDir, s.meta.ID+".md")
		if err := os.WriteFile(path, doc, 0644); err != nil {
			fail(err)
		}
		fmt.Println("  wrote", path)
	}

	fmt.Println("Done. Try: subset validate --dir", targetDir)
}

func render(s sample) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.meta); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", s.meta.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(s.body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
