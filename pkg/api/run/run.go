package run

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/compose"
)

// apiVersion is reported in every response.
const apiVersion = "v1"

// Func runs the configured action against labels, or every entry when labels is empty.
type Func func(ctx context.Context, labels []string) (*compose.Report, error)

// Handler triggers lifecycle actions via HTTP.
//
// It holds the run function, endpoint path, and concurrency lock for the /v1/run endpoint.
type Handler struct {
	fn   Func      // Action execution function.
	Path string    // API endpoint path.
	lock chan bool // Serializes runs with the scheduler.
}

// New creates a new Handler instance.
//
// Parameters:
//   - fn: Function executing the action.
//   - lock: Optional lock channel shared with the scheduler; if nil, a new channel is created.
//
// Returns:
//   - *Handler: Initialized handler.
func New(fn Func, lock chan bool) *Handler {
	if lock == nil {
		lock = make(chan bool, 1)
		lock <- true

		logrus.Debug("Initialized new run lock channel")
	}

	return &Handler{
		fn:   fn,
		Path: "/v1/run",
		lock: lock,
	}
}

// Handle processes run requests.
//
// Targeted runs (with label query parameters) wait for the lock. Full runs
// return HTTP 429 immediately when another run holds it. A run that cannot
// start returns HTTP 500; per-label failures are part of a 200 response.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clog := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	clog.Info("Received HTTP API run request")

	if _, err := io.Copy(io.Discard, r.Body); err != nil {
		clog.WithError(err).Debug("Failed to read request body")
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)

		return
	}

	labels := parseLabels(r)

	if len(labels) > 0 {
		select {
		case v := <-h.lock:
			defer func() { h.lock <- v }()
		case <-r.Context().Done():
			clog.Debug("Request cancelled while waiting for lock")
			http.Error(w, "request cancelled", http.StatusServiceUnavailable)

			return
		}

		clog.WithField("labels", labels).Info("Executing targeted run")
	} else {
		select {
		case v := <-h.lock:
			defer func() { h.lock <- v }()
		default:
			clog.Debug("Skipped run, another run already in progress")
			w.Header().Set("Retry-After", "30")
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "another run is already in progress",
				"api_version": apiVersion,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			})

			return
		}

		clog.Info("Executing full run")
	}

	startTime := time.Now()
	report, err := h.fn(r.Context(), labels)
	duration := time.Since(startTime)

	if err != nil {
		clog.WithError(err).Error("Run failed to start")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":       err.Error(),
			"api_version": apiVersion,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})

		return
	}

	failed := map[string]string{}
	for label, fault := range report.Failed() {
		failed[label] = fault.Error()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"action": report.Action(),
		"summary": map[string]any{
			"targeted":  report.Len(),
			"succeeded": len(report.Succeeded()),
			"failed":    len(failed),
		},
		"succeeded": report.Succeeded(),
		"failed":    failed,
		"timing": map[string]any{
			"duration_ms": duration.Milliseconds(),
			"duration":    duration.String(),
		},
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"api_version": apiVersion,
	})
}

// parseLabels collects the comma-separated "label" query parameters.
func parseLabels(r *http.Request) []string {
	var labels []string

	for _, value := range r.URL.Query()["label"] {
		for label := range strings.SplitSeq(value, ",") {
			if label = strings.TrimSpace(label); label != "" {
				labels = append(labels, label)
			}
		}
	}

	return labels
}

// writeJSON encodes body and writes it with status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(buf.Bytes()); err != nil {
		logrus.WithError(err).Error("Failed to write response")
	}
}
