package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/pkg/domain"
)

// ErrValidationFailed is returned when at least one definition is invalid.
var ErrValidationFailed = errors.New("validation failed")

// ValidateDefinitions validates the given IDs (all known definitions if none)
// and writes one report line per definition.
func ValidateDefinitions(ctx context.Context, conv *subset.Converter, ids []string, out io.Writer) error {
	if len(ids) == 0 {
		var err error
		ids, err = conv.Definitions(ctx)
		if err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "no definitions found")
		return nil
	}

	failed := 0
	for _, id := range ids {
		def, err := conv.Definition(ctx, id)
		if err == nil {
			var nfa *domain.NFA
			nfa, err = conv.Validate(def)
			if err == nil {
				fmt.Fprintf(out, "✓ %s (%d states, %d symbols)\n", id, len(nfa.States()), len(nfa.Alphabet()))
				for _, w := range nfa.Warnings() {
					fmt.Fprintf(out, "    warning: %s\n", w)
				}
				continue
			}
		}

		failed++
		fmt.Fprintf(out, "✗ %s\n", id)
		details := domain.ValidationErrors(err)
		if len(details) == 0 {
			details = []error{err}
		}
		for _, d := range details {
			fmt.Fprintf(out, "    %v\n", d)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d definitions invalid", ErrValidationFailed, failed, len(ids))
	}
	return nil
}
