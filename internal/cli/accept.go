package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/subset/internal/engine"
	"github.com/aretw0/subset/internal/presentation/tui"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/render"
	"github.com/manifoldco/promptui"
	"github.com/muesli/termenv"
)

// ErrOracleMismatch means the DFA and a direct NFA simulation disagree on a word.
var ErrOracleMismatch = errors.New("DFA and NFA disagree")

// Evaluation is the outcome of running one word.
type Evaluation struct {
	Word     []string
	Path     []string // DFA states visited, start first
	Accepted bool
	Oracle   bool   // NFA simulation result
	Stuck    string // why the run stopped early, if it did
}

// Session checks words against a converted DFA and its source NFA.
type Session struct {
	DFA     *domain.DFA
	NFA     *domain.NFA
	Out     io.Writer
	Profile termenv.Profile
}

// ParseWord splits user input into symbols. Commas or spaces separate symbols;
// without separators, input is split per character when every alphabet symbol
// is a single character, and is a single symbol otherwise. Empty input and a
// lone epsilon are the empty word.
func ParseWord(input string, alphabet []string) []string {
	input = strings.TrimSpace(input)
	if input == "" || input == domain.Epsilon {
		return []string{}
	}
	if strings.ContainsAny(input, ", ") {
		return strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	}
	for _, sym := range alphabet {
		if utf8.RuneCountInString(sym) != 1 {
			return []string{input}
		}
	}
	word := make([]string, 0, len(input))
	for _, r := range input {
		word = append(word, string(r))
	}
	return word
}

// Evaluate runs word through the DFA and the NFA oracle.
func (s *Session) Evaluate(word []string) Evaluation {
	ev := Evaluation{Word: word, Oracle: engine.Simulate(s.NFA, word)}
	if len(s.DFA.States) == 0 {
		ev.Stuck = "empty automaton"
		return ev
	}

	current := s.DFA.Start().Key
	ev.Path = []string{current}
	for _, sym := range word {
		if !slices.Contains(s.DFA.Alphabet, sym) {
			ev.Stuck = fmt.Sprintf("symbol %q not in alphabet", sym)
			return ev
		}
		next, ok := s.DFA.Next(current, sym)
		if !ok {
			ev.Stuck = fmt.Sprintf("no transition for (%s, %s)", current, sym)
			return ev
		}
		current = next
		ev.Path = append(ev.Path, current)
	}
	ev.Accepted = s.DFA.IsAccepting(current)
	return ev
}

// Check evaluates input, prints the verdict and fails on an oracle mismatch.
func (s *Session) Check(input string) (Evaluation, error) {
	ev := s.Evaluate(ParseWord(input, s.DFA.Alphabet))

	shown := strings.Join(ev.Word, "")
	if len(ev.Word) == 0 {
		shown = domain.Epsilon
	}
	fmt.Fprintf(s.Out, "%s\t%s\t%s\n", shown, tui.Verdict(s.Profile, ev.Accepted), strings.Join(ev.Path, " -> "))
	if ev.Stuck != "" {
		fmt.Fprintln(s.Out, tui.Warn(s.Profile, ev.Stuck))
	}

	if ev.Accepted != ev.Oracle {
		return ev, fmt.Errorf("%w on %q", ErrOracleMismatch, shown)
	}
	return ev, nil
}

// RunHeadless checks one word per input line until EOF or cancellation.
func (s *Session) RunHeadless(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(NewInterruptibleReader(in, ctx.Done()))
	for scanner.Scan() {
		if _, err := s.Check(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil && !IsInterrupted(err) {
		return err
	}
	return nil
}

// RunInteractive prompts for words until the user exits.
// ":table" prints the transition table, "exit" or Ctrl+C quits.
func (s *Session) RunInteractive(ctx context.Context) error {
	for ctx.Err() == nil {
		prompt := promptui.Prompt{
			Label: "word (exit to quit)",
		}
		input, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return fmt.Errorf("prompt failed: %w", err)
		}

		switch strings.TrimSpace(input) {
		case "exit", ":q":
			return nil
		case ":table":
			fmt.Fprint(s.Out, render.Table(s.DFA))
			continue
		}

		if _, err := s.Check(input); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, promptui.Styler(promptui.FGMagenta)(strings.Repeat("-", 30)))
	}
	return nil
}
