package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/subset/pkg/domain"
)

// LoggingHooks logs each conversion step. Discoveries and transitions are
// logged at debug level, the summary at info (or warn on failure).
func LoggingHooks(logger *slog.Logger) domain.ConversionHooks {
	return domain.ConversionHooks{
		OnStateDiscovered: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_discovered", "key", e.State.Key, "order", e.Order)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition", "from", e.From, "symbol", e.Symbol, "to", e.To, "new", e.New)
		},
		OnConversionDone: func(ctx context.Context, e *domain.ConversionEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "conversion_failed", "states", e.States, "duration", e.Duration, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "conversion_done",
				"states", e.States,
				"transitions", e.Transitions,
				"accepting", e.Accepting,
				"duration", e.Duration,
			)
		},
	}
}
