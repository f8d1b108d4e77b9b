package observability

import (
	"context"
	"errors"

	"github.com/aretw0/subset/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Conversion outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeLimit   = "limit"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors for conversions.
type Metrics struct {
	Conversions      *prometheus.CounterVec
	StatesDiscovered prometheus.Counter
	DFAStates        prometheus.Histogram
	Duration         prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subset_conversions_total",
				Help: "Total number of NFA to DFA conversions, by outcome",
			},
			[]string{"outcome"},
		),
		StatesDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "subset_states_discovered_total",
			Help: "Total number of composite states discovered",
		}),
		DFAStates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "subset_dfa_states",
			Help:    "Number of states in produced DFAs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "subset_conversion_duration_seconds",
			Help: "Duration of conversions",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subset_http_requests_total",
				Help: "Total number of HTTP API requests, by status code and method",
			},
			[]string{"code", "method"},
		),
	}

	for _, c := range []prometheus.Collector{m.Conversions, m.StatesDiscovered, m.DFAStates, m.Duration, m.HTTPRequests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns conversion hooks that record into m.
func (m *Metrics) Hooks() domain.ConversionHooks {
	return domain.ConversionHooks{
		OnStateDiscovered: func(_ context.Context, _ *domain.StateEvent) {
			m.StatesDiscovered.Inc()
		},
		OnConversionDone: func(_ context.Context, e *domain.ConversionEvent) {
			outcome := Outcome(e.Err)
			m.Conversions.WithLabelValues(outcome).Inc()
			m.Duration.Observe(e.Duration.Seconds())
			if outcome == OutcomeOK {
				m.DFAStates.Observe(float64(e.States))
			}
		},
	}
}

// Outcome classifies a conversion error into a label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrStateLimitExceeded):
		return OutcomeLimit
	case errors.Is(err, domain.ErrInvalidAutomaton):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
