// Package metrics serves composer's Prometheus metrics over the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler is an HTTP handle for serving metric data.
type Handler struct {
	Path   string
	Handle http.Handler
}

// New is a factory function creating a new metrics Handler.
//
// Parameters:
//   - gatherer: Source of the exposed metric families, usually prometheus.DefaultGatherer.
//
// Returns:
//   - *Handler: Handler serving the text exposition format at /v1/metrics.
func New(gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		Path:   "/v1/metrics",
		Handle: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}
