package observability_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, observability.OutcomeOK},
		{fmt.Errorf("wrap: %w", domain.ErrStateLimitExceeded), observability.OutcomeLimit},
		{&domain.ValidationError{Field: "initial_state", Kind: domain.ErrNoInitialState}, observability.OutcomeInvalid},
		{errors.New("boom"), observability.OutcomeError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, observability.Outcome(tt.err), "%v", tt.err)
	}
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStateDiscovered(ctx, &domain.StateEvent{})
	hooks.OnStateDiscovered(ctx, &domain.StateEvent{})
	hooks.OnConversionDone(ctx, &domain.ConversionEvent{States: 2, Duration: time.Millisecond})
	hooks.OnConversionDone(ctx, &domain.ConversionEvent{Err: domain.ErrStateLimitExceeded})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatesDiscovered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversions.WithLabelValues(observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversions.WithLabelValues(observability.OutcomeLimit)))

	expected := `
# HELP subset_conversions_total Total number of NFA to DFA conversions, by outcome
# TYPE subset_conversions_total counter
subset_conversions_total{outcome="limit"} 1
subset_conversions_total{outcome="ok"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.Conversions, strings.NewReader(expected)))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnStateDiscovered(ctx, &domain.StateEvent{State: domain.CompositeState{Key: "q0,q2"}})
	hooks.OnTransition(ctx, &domain.TransitionEvent{From: "q0,q2", Symbol: "a", To: "q1", New: true})
	hooks.OnConversionDone(ctx, &domain.ConversionEvent{States: 3})
	hooks.OnConversionDone(ctx, &domain.ConversionEvent{Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, "state_discovered")
	assert.Contains(t, out, `key=q0,q2`)
	assert.Contains(t, out, "symbol=a")
	assert.Contains(t, out, "msg=conversion_done")
	assert.Contains(t, out, "msg=conversion_failed")
}
