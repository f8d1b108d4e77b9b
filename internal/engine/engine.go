package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/subset/pkg/domain"
)

// Engine runs one subset construction over one NFA.
// An Engine owns the DFA it builds: create a new Engine per conversion.
type Engine struct {
	nfa        *domain.NFA
	hooks      domain.ConversionHooks
	logger     *slog.Logger
	stateLimit int
	now        func() time.Time

	// builder state, valid during Convert
	states     []domain.StateSet
	composites []domain.CompositeState
	byPrint    map[string]int
	dfa        *domain.DFA
	used       bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.ConversionHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStateLimit aborts the conversion once more than n composite states are discovered.
// Zero means unlimited.
func WithStateLimit(n int) Option {
	return func(e *Engine) {
		e.stateLimit = n
	}
}

// New creates an engine for the given NFA.
func New(nfa *domain.NFA, opts ...Option) *Engine {
	e := &Engine{
		nfa:    nfa,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EpsilonClosure returns every state reachable from seed using only epsilon transitions,
// seed included. The seed is not modified.
func (e *Engine) EpsilonClosure(seed domain.StateSet) domain.StateSet {
	closure := seed.Clone()
	stack := seed.Indices()

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range e.nfa.OutgoingIndex(current, domain.Epsilon) {
			if closure.Add(next) {
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// Move returns the union of the symbol targets of every state in set.
// The result may be empty. symbol must not be epsilon.
func (e *Engine) Move(set domain.StateSet, symbol string) domain.StateSet {
	result := e.nfa.NewSet()
	for _, s := range set.Indices() {
		for _, t := range e.nfa.OutgoingIndex(s, symbol) {
			result.Add(t)
		}
	}
	return result
}

// Convert runs the subset construction and returns the DFA.
// ctx is only handed to hooks; the conversion itself always runs to completion
// unless the state limit is hit.
func (e *Engine) Convert(ctx context.Context) (*domain.DFA, error) {
	if e.used {
		return nil, fmt.Errorf("engine already used: create a new engine per conversion")
	}
	e.used = true

	started := e.now()
	alphabet := e.nfa.Alphabet()

	e.byPrint = make(map[string]int)
	e.dfa = &domain.DFA{
		Alphabet:    alphabet,
		Transitions: make(map[string]map[string]string),
		Accepting:   []string{},
	}

	initial := e.EpsilonClosure(e.nfa.InitialSet())
	start, _, err := e.discover(ctx, initial)
	if err != nil {
		return nil, e.fail(ctx, started, err)
	}

	worklist := []int{start}
	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		set := e.states[current]
		key := e.composites[current].Key
		row := make(map[string]string)
		e.dfa.Transitions[key] = row

		for _, symbol := range alphabet {
			target := e.EpsilonClosure(e.Move(set, symbol))
			if target.IsEmpty() {
				continue
			}

			idx, isNew, err := e.discover(ctx, target)
			if err != nil {
				return nil, e.fail(ctx, started, err)
			}
			if isNew {
				worklist = append(worklist, idx)
			}

			to := e.composites[idx].Key
			row[symbol] = to
			if e.hooks.OnTransition != nil {
				e.hooks.OnTransition(ctx, &domain.TransitionEvent{
					EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventTransition},
					From:      key,
					Symbol:    symbol,
					To:        to,
					New:       isNew,
				})
			}
		}

		if e.accepting(set) {
			e.dfa.Accepting = append(e.dfa.Accepting, key)
		}
	}

	e.dfa.States = e.composites
	dfa := e.dfa
	e.dfa = nil

	e.logger.Debug("subset construction finished",
		"nfa_states", e.nfa.Size(),
		"dfa_states", len(dfa.States),
		"transitions", dfa.TransitionCount(),
		"accepting", len(dfa.Accepting),
	)

	if e.hooks.OnConversionDone != nil {
		e.hooks.OnConversionDone(ctx, &domain.ConversionEvent{
			EventBase:   domain.EventBase{Timestamp: e.now(), Type: domain.EventConversionDone},
			States:      len(dfa.States),
			Transitions: dfa.TransitionCount(),
			Accepting:   len(dfa.Accepting),
			Duration:    e.now().Sub(started),
		})
	}

	return dfa, nil
}

// discover returns the index of the composite state structurally equal to set,
// registering it if it was not seen before.
func (e *Engine) discover(ctx context.Context, set domain.StateSet) (int, bool, error) {
	fp := set.Fingerprint()
	if idx, ok := e.byPrint[fp]; ok {
		return idx, false, nil
	}
	if e.stateLimit > 0 && len(e.states) >= e.stateLimit {
		return 0, false, fmt.Errorf("%w: limit is %d", domain.ErrStateLimitExceeded, e.stateLimit)
	}

	idx := len(e.states)
	composite := e.nfa.Composite(set)
	e.states = append(e.states, set)
	e.composites = append(e.composites, composite)
	e.byPrint[fp] = idx

	e.logger.Debug("composite state discovered", "key", composite.Key, "order", idx)
	if e.hooks.OnStateDiscovered != nil {
		e.hooks.OnStateDiscovered(ctx, &domain.StateEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventStateDiscovered},
			State:     composite,
			Order:     idx,
		})
	}
	return idx, true, nil
}

func (e *Engine) accepting(set domain.StateSet) bool {
	for _, s := range set.Indices() {
		if e.nfa.IsAcceptingIndex(s) {
			return true
		}
	}
	return false
}

func (e *Engine) fail(ctx context.Context, started time.Time, err error) error {
	e.dfa = nil
	if e.hooks.OnConversionDone != nil {
		e.hooks.OnConversionDone(ctx, &domain.ConversionEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventConversionDone},
			States:    len(e.states),
			Duration:  e.now().Sub(started),
			Err:       err,
		})
	}
	return err
}
