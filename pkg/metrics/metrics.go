package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/compose"
)

// Outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// errRegisterMetric indicates a collector could not be registered.
var errRegisterMetric = errors.New("failed to register metric")

// Metric holds the outcome counts of one bulk lifecycle action.
type Metric struct {
	Action    compose.Action // Action that was run.
	Succeeded int            // Number of entries the action completed on.
	Failed    int            // Number of entries the action failed on.
}

// Metrics handles processing and exposing action metrics.
type Metrics struct {
	actions *prometheus.CounterVec // Counter for per-container action outcomes.
	managed prometheus.Gauge       // Gauge for entries in the model.
	runs    prometheus.Counter     // Counter for bulk actions run.
}

// NewWithRegistry creates a new Metrics handler with a custom Prometheus registry.
//
// Parameters:
//   - registry: Prometheus registerer to use for metric registration.
//
// Returns:
//   - *Metrics: Metrics handler.
//   - error: Non-nil if a collector is already registered.
func NewWithRegistry(registry prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "composer_container_actions_total",
			Help: "Number of container lifecycle actions by action and outcome",
		}, []string{"action", "outcome"}),
		managed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "composer_containers_managed",
			Help: "Number of entries in the composition model during the last run",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "composer_runs_total",
			Help: "Number of bulk lifecycle actions run",
		}),
	}

	for _, m := range []prometheus.Collector{metrics.actions, metrics.managed, metrics.runs} {
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("%w: %w", errRegisterMetric, err)
		}
	}

	return metrics, nil
}

// Default initializes or returns the singleton Metrics handler on the default registry.
// It panics on registration failure.
//
// Returns:
//   - *Metrics: Metrics handler.
func Default() *Metrics {
	metricsOnce.Do(func() {
		var err error

		metrics, err = NewWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			panic(err)
		}
	})

	return metrics
}

// NewMetric creates a Metric from an action report.
//
// Parameters:
//   - report: Bulk action report.
//
// Returns:
//   - *Metric: New metric instance.
func NewMetric(report *compose.Report) *Metric {
	if report == nil {
		panic("NewMetric: report is nil")
	}

	return &Metric{
		Action:    report.Action(),
		Succeeded: len(report.Succeeded()),
		Failed:    len(report.Failed()),
	}
}

// Record adds a metric to the collectors.
//
// Parameters:
//   - metric: Metric to record; nil is ignored.
func (m *Metrics) Record(metric *Metric) {
	if metric == nil {
		return
	}

	action := string(metric.Action)

	m.runs.Inc()
	m.actions.WithLabelValues(action, OutcomeSucceeded).Add(float64(metric.Succeeded))
	m.actions.WithLabelValues(action, OutcomeFailed).Add(float64(metric.Failed))

	logrus.WithFields(logrus.Fields{
		"action":    action,
		"succeeded": metric.Succeeded,
		"failed":    metric.Failed,
	}).Trace("Recorded action metric")
}

// SetManaged records the number of entries in the model.
func (m *Metrics) SetManaged(count int) {
	m.managed.Set(float64(count))
}

// WriteTextfile atomically writes the gathered metrics in the text exposition format.
//
// Parameters:
//   - path: Destination file, conventionally ending in ".prom".
//   - gatherer: Source of the metric families.
//
// Returns:
//   - error: Non-nil if gathering or writing fails.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}

	logrus.WithField("path", path).Debug("Wrote metrics textfile")

	return nil
}
