package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAutomaton is returned when a definition cannot be turned into an NFA.
// Every construction failure wraps it, so callers can match with errors.Is.
var ErrInvalidAutomaton = errors.New("invalid automaton")

// ErrNoInitialState is returned when the initial state is missing or undeclared.
var ErrNoInitialState = errors.New("no initial state")

// ErrMalformedReference is returned (in strict mode) when a transition or the
// accepting set names a state that is not declared, or a symbol outside the alphabet.
var ErrMalformedReference = errors.New("malformed reference")

// ErrEpsilonInAlphabet is returned when the reserved epsilon symbol is declared in the alphabet.
var ErrEpsilonInAlphabet = errors.New("epsilon is reserved and cannot be an alphabet symbol")

// ErrInvalidStateName is returned for empty state names or names containing the key separator.
var ErrInvalidStateName = errors.New("invalid state name")

// ErrStateLimitExceeded is returned when a conversion discovers more composite states than allowed.
var ErrStateLimitExceeded = errors.New("composite state limit exceeded")

// ErrDefinitionNotFound is returned when a definition ID cannot be found by a loader.
var ErrDefinitionNotFound = errors.New("definition not found")

// ErrResultNotFound is returned when a result ID cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")

// ErrInvalidResultID is returned by stores for IDs that are empty or could
// escape the store's namespace.
var ErrInvalidResultID = errors.New("invalid result ID")

// ErrCorruptResult is returned when a stored result decodes without a usable DFA.
var ErrCorruptResult = errors.New("corrupt result")

// ValidationError represents a single definition problem.
type ValidationError struct {
	Field  string // Definition field, e.g. "transitions"
	Reason string // Human-readable reason for failure
	Value  any    // The offending value
	Kind   error  // Sentinel classifying the failure
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Unwrap exposes the sentinel kind and ErrInvalidAutomaton.
func (e *ValidationError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrInvalidAutomaton}
	}
	return []error{e.Kind, ErrInvalidAutomaton}
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap allows errors.Is to match any of the aggregated errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is (or wraps) an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return []error{single}
	}
	return nil
}
