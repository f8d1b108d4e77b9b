package domain

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Result is a finished conversion, as stored and served by adapters.
type Result struct {
	ID         string     `json:"id"`
	Definition Definition `json:"definition"`
	DFA        *DFA       `json:"dfa"`
	Warnings   []string   `json:"warnings,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Definition = r.Definition.Clone()
	c.DFA = r.DFA.Clone()
	c.Warnings = slices.Clone(r.Warnings)
	return &c
}

// ValidateResultID rejects IDs that are empty, contain a path separator or a
// "..", or are otherwise not a plain local name.
func ValidateResultID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidResultID)
	case id == ".",
		strings.ContainsAny(id, `/\`+"\x00"),
		strings.Contains(id, ".."),
		!filepath.IsLocal(id):
		return fmt.Errorf("%w: %q", ErrInvalidResultID, id)
	}
	return nil
}

// Check reports whether a decoded result carries a DFA with at least its start state.
func (r *Result) Check() error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: empty document", ErrCorruptResult)
	case r.DFA == nil:
		return fmt.Errorf("%w: %s has no dfa", ErrCorruptResult, r.ID)
	case len(r.DFA.States) == 0:
		return fmt.Errorf("%w: %s has no states", ErrCorruptResult, r.ID)
	}
	return nil
}
