// Package api wires composer's HTTP endpoints into the API server for daemon mode.
package api

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/api"
	metricsAPI "github.com/nicholas-fedor/composer/pkg/api/metrics"
	"github.com/nicholas-fedor/composer/pkg/api/run"
)

// Config selects the endpoints to serve and where.
type Config struct {
	Host          string // Interface to bind, empty for all.
	Port          string // Port to bind.
	Token         string // Bearer token required on every request.
	EnableRun     bool   // Serve /v1/run.
	EnableMetrics bool   // Serve /v1/metrics.
}

// GetAPIAddr formats the API address string based on host and port.
func GetAPIAddr(host, port string) string {
	address := host + ":" + port
	if host != "" && strings.Contains(host, ":") && net.ParseIP(host) != nil {
		address = "[" + host + "]:" + port
	}

	return address
}

// SetupAndStartAPI registers the enabled endpoints and starts the HTTP API.
//
// Parameters:
//   - ctx: Controls the server lifetime.
//   - cfg: Endpoint and address configuration.
//   - lock: Run lock shared with the scheduler.
//   - runFn: Runs the configured action for /v1/run.
//   - gatherer: Metric source for /v1/metrics.
//   - blocking: Serve in the foreground until ctx is cancelled.
//   - server: Optional injected server for testing.
//
// Returns:
//   - error: Non-nil if the API fails to start.
func SetupAndStartAPI(
	ctx context.Context,
	cfg Config,
	lock chan bool,
	runFn run.Func,
	gatherer prometheus.Gatherer,
	blocking bool,
	server ...api.HTTPServer,
) error {
	address := GetAPIAddr(cfg.Host, cfg.Port)
	httpAPI := api.New(cfg.Token, address, server...)

	if cfg.EnableRun {
		runHandler := run.New(runFn, lock)
		httpAPI.RegisterFunc(runHandler.Path, runHandler.Handle)
		logrus.WithField("path", runHandler.Path).Debug("Registered run endpoint")
	}

	if cfg.EnableMetrics {
		metricsHandler := metricsAPI.New(gatherer)
		httpAPI.RegisterHandler(metricsHandler.Path, metricsHandler.Handle)
		logrus.WithField("path", metricsHandler.Path).Debug("Registered metrics endpoint")
	}

	if err := httpAPI.Start(ctx, blocking); err != nil {
		logrus.WithError(err).Error("Failed to start API")

		return fmt.Errorf("failed to start HTTP API: %w", err)
	}

	return nil
}
