// Package metrics provides tracking and exposure of lifecycle action metrics.
// It integrates with Prometheus to count container action outcomes per action.
//
// Key components:
//   - Metrics: Holds the Prometheus collectors and records action reports.
//   - NewMetric: Creates a metric from a bulk action report.
//   - WriteTextfile: Writes gathered metrics for the node exporter textfile collector.
//
// Usage example:
//
//	registry := prometheus.NewRegistry()
//	m, _ := metrics.NewWithRegistry(registry)
//	m.Record(metrics.NewMetric(report))
//	if err := metrics.WriteTextfile("/var/lib/node_exporter/composer.prom", registry); err != nil {
//	    logrus.WithError(err).Warn("Failed to write metrics")
//	}
//
// The package uses Prometheus for metrics exposure and integrates with compose.Report.
package metrics
