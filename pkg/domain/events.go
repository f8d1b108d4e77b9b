package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateDiscovered EventType = "state_discovered"
	EventTransition      EventType = "transition"
	EventConversionDone  EventType = "conversion_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StateEvent is emitted when a new composite state is discovered.
type StateEvent struct {
	EventBase
	State CompositeState `json:"state"`
	Order int            `json:"order"` // discovery position, 0 for the start state
}

// TransitionEvent is emitted when a DFA transition is recorded.
type TransitionEvent struct {
	EventBase
	From   string `json:"from"`
	Symbol string `json:"symbol"`
	To     string `json:"to"`
	New    bool   `json:"new"` // target was discovered by this transition
}

// ConversionEvent summarizes a finished conversion.
type ConversionEvent struct {
	EventBase
	States      int           `json:"states"`
	Transitions int           `json:"transitions"`
	Accepting   int           `json:"accepting"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// ConversionHooks defines callbacks for engine observability.
// Hooks run synchronously on the converting goroutine.
type ConversionHooks struct {
	OnStateDiscovered func(context.Context, *StateEvent)
	OnTransition      func(context.Context, *TransitionEvent)
	OnConversionDone  func(context.Context, *ConversionEvent)
}

// Merge returns hooks that call h first, then other.
func (h ConversionHooks) Merge(other ConversionHooks) ConversionHooks {
	return ConversionHooks{
		OnStateDiscovered: chain(h.OnStateDiscovered, other.OnStateDiscovered),
		OnTransition:      chain(h.OnTransition, other.OnTransition),
		OnConversionDone:  chain(h.OnConversionDone, other.OnConversionDone),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
