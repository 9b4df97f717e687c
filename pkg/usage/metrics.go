package usage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
)

// Check outcomes recorded in reviewsystem_usage_checks_total.
const (
	OutcomeAllowed       = "allowed"
	OutcomeWarning       = "warning"
	OutcomeBlocked       = "blocked"
	OutcomeUnlimited     = "unlimited"
	OutcomeFailOpen      = "fail_open"
	OutcomeUnknownPolicy = "unknown_policy"
)

// Refresh results recorded in reviewsystem_usage_refresh_total.
const (
	RefreshOK    = "ok"
	RefreshError = "error"
)

// UnknownFeatureLabel replaces feature names that are not supported.
const UnknownFeatureLabel = "unknown"

// Metrics holds the usage gate counters. A nil *Metrics records nothing.
type Metrics struct {
	checks  *prometheus.CounterVec
	refresh *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reviewsystem",
				Subsystem: "usage",
				Name:      "checks_total",
				Help:      "Total usage limit checks by feature and outcome",
			},
			[]string{"feature", "outcome"},
		),
		refresh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reviewsystem",
				Subsystem: "usage",
				Name:      "refresh_total",
				Help:      "Total billing API refreshes by result",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.checks, m.refresh} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// RecordCheck counts one CheckUsageLimit call. Unsupported features share
// the UnknownFeatureLabel series.
func (m *Metrics) RecordCheck(feature limits.Feature, outcome string) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(featureLabel(feature), outcome).Inc()
}

// RecordRefresh counts one billing API refresh.
func (m *Metrics) RecordRefresh(result string) {
	if m == nil {
		return
	}
	m.refresh.WithLabelValues(result).Inc()
}

// Checks exposes the checks counter for inspection.
func (m *Metrics) Checks() *prometheus.CounterVec { return m.checks }

// Refreshes exposes the refresh counter for inspection.
func (m *Metrics) Refreshes() *prometheus.CounterVec { return m.refresh }

func featureLabel(f limits.Feature) string {
	parsed, err := limits.ParseFeature(string(f))
	if err != nil {
		return UnknownFeatureLabel
	}
	return string(parsed)
}
