package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/composer/internal/actions"
	internalAPI "github.com/nicholas-fedor/composer/internal/api"
	"github.com/nicholas-fedor/composer/internal/logging"
	"github.com/nicholas-fedor/composer/internal/meta"
	"github.com/nicholas-fedor/composer/internal/scheduling"
	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/metrics"
	"github.com/nicholas-fedor/composer/pkg/notifications"
)

// Errors for action commands.
var (
	// errActionFailed indicates the action failed on at least one container.
	errActionFailed = errors.New("action failed")
	// errInvalidAPIHost indicates --http-api-host is neither empty nor an IP address.
	errInvalidAPIHost = errors.New("http-api-host must be empty or a valid IP address")
)

// RunConfig aggregates the flags of an action command.
type RunConfig struct {
	Command    *cobra.Command     // Executed command, for flag access.
	Action     compose.Action     // Lifecycle action to issue.
	Labels     []string           // Target labels from the positional arguments.
	Parallel   bool               // --parallel.
	Ordered    bool               // --ordered.
	Schedule   string             // --schedule cron specification.
	RunOnStart bool               // --run-on-start.
	Textfile   string             // --metrics-textfile destination.
	API        internalAPI.Config // HTTP API settings.
}

// Daemon reports whether the command keeps running after the first action.
func (cfg RunConfig) Daemon() bool {
	return cfg.Schedule != "" || cfg.API.EnableRun
}

// newActionCommand creates the subcommand issuing action.
func newActionCommand(action compose.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " [LABEL...]",
		Short: short,
		Long: "\n" + short + ".\nWithout labels every container of the project is targeted.",
		Args: cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, labels []string) error {
			cfg, err := readRunConfig(c, action, labels)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runMain(ctx, cfg)
		},
	}
}

// readRunConfig collects the action flags of c.
func readRunConfig(c *cobra.Command, action compose.Action, labels []string) (RunConfig, error) {
	flagsSet := c.Flags()

	cfg := RunConfig{
		Command: c,
		Action:  action,
		Labels:  labels,
	}

	cfg.Parallel, _ = flagsSet.GetBool("parallel")
	cfg.Ordered, _ = flagsSet.GetBool("ordered")
	cfg.Schedule, _ = flagsSet.GetString("schedule")
	cfg.RunOnStart, _ = flagsSet.GetBool("run-on-start")
	cfg.Textfile, _ = flagsSet.GetString("metrics-textfile")
	cfg.API.EnableRun, _ = flagsSet.GetBool("http-api-run")
	cfg.API.EnableMetrics, _ = flagsSet.GetBool("http-api-metrics")
	cfg.API.Host, _ = flagsSet.GetString("http-api-host")
	cfg.API.Port, _ = flagsSet.GetString("http-api-port")
	cfg.API.Token, _ = flagsSet.GetString("http-api-token")

	if cfg.API.Host != "" && net.ParseIP(cfg.API.Host) == nil {
		return RunConfig{}, fmt.Errorf("%w: %q", errInvalidAPIHost, cfg.API.Host)
	}

	if cfg.API.Port == "" {
		cfg.API.Port = "8080"
	}

	if cfg.API.EnableMetrics && !cfg.Daemon() {
		logrus.Warn("--http-api-metrics has no effect without --schedule or --http-api-run")
	}

	return cfg, nil
}

// runner executes the configured action, reloading the model for each run.
type runner struct {
	cfg      RunConfig
	notifier *notifications.Notifier
	recorder actions.Recorder
	gatherer prometheus.Gatherer
}

// runMain loads the project once, then runs the action a single time or
// hands over to the scheduler and HTTP API.
//
// Returns:
//   - error: Non-nil if loading fails, the action cannot run, or, for a single
//     run, the action failed on any container.
func runMain(ctx context.Context, cfg RunConfig) error {
	model, engine, err := loadModel(ctx, cfg.Command)
	if err != nil {
		return err
	}

	warnUnknownLabels(model, cfg.Labels)

	r := &runner{
		cfg:      cfg,
		notifier: notifications.NewNotifier(cfg.Command),
		recorder: metrics.Default(),
		gatherer: prometheus.DefaultGatherer,
	}

	apiVersion := ""
	if engine != nil {
		apiVersion = engine.APIVersion()
		defer closeEngine(engine)
	}

	if !cfg.Daemon() {
		report, err := r.execute(ctx, model, cfg.Labels)
		if err != nil {
			return err
		}

		if err := report.Err(); err != nil {
			return fmt.Errorf("%w: %w", errActionFailed, err)
		}

		return nil
	}

	return r.serve(ctx, apiVersion)
}

// serve runs the HTTP API and the schedule until ctx is cancelled.
func (r *runner) serve(ctx context.Context, apiVersion string) error {
	lock := make(chan bool, 1)
	lock <- true

	if r.cfg.API.EnableRun || r.cfg.API.EnableMetrics {
		blocking := r.cfg.Schedule == ""
		if blocking {
			logging.WriteStartupMessage(r.cfg.Command, r.startupInfo(apiVersion, time.Time{}))
		}

		if err := internalAPI.SetupAndStartAPI(ctx, r.cfg.API, lock, r.run, r.gatherer, blocking); err != nil {
			return err //nolint:wrapcheck
		}

		if blocking {
			return nil
		}
	}

	err := scheduling.RunOnSchedule(ctx, scheduling.Options{
		Schedule:   r.cfg.Schedule,
		RunOnStart: r.cfg.RunOnStart,
		Lock:       lock,
		OnStart: func(nextRun time.Time) {
			logging.WriteStartupMessage(r.cfg.Command, r.startupInfo(apiVersion, nextRun))
		},
	}, func(ctx context.Context) {
		if _, err := r.run(ctx, nil); err != nil {
			logrus.WithError(err).Error("Scheduled action failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to run schedule: %w", err)
	}

	return nil
}

// run reloads the model and issues the action on labels, or on the
// command's labels when labels is empty.
func (r *runner) run(ctx context.Context, labels []string) (*compose.Report, error) {
	model, engine, err := loadModel(ctx, r.cfg.Command)
	if err != nil {
		return nil, err
	}

	if engine != nil {
		defer closeEngine(engine)
	}

	if len(labels) == 0 {
		labels = r.cfg.Labels
	}

	warnUnknownLabels(model, labels)

	return r.execute(ctx, model, labels)
}

// execute runs the action on model and writes the metrics textfile.
func (r *runner) execute(ctx context.Context, model *compose.Model, labels []string) (*compose.Report, error) {
	report, err := actions.RunWithNotifications(ctx, model, actions.Params{
		Action:   r.cfg.Action,
		Labels:   labels,
		Parallel: r.cfg.Parallel,
		Ordered:  r.cfg.Ordered,
	}, r.notifier, r.recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", r.cfg.Action, err)
	}

	if r.cfg.Textfile != "" {
		if err := metrics.WriteTextfile(r.cfg.Textfile, r.gatherer); err != nil {
			logrus.WithError(err).Warn("Failed to write metrics textfile")
		}
	}

	return report, nil
}

// startupInfo describes the daemon for the startup message.
func (r *runner) startupInfo(apiVersion string, nextRun time.Time) logging.StartupInfo {
	project, _ := r.cfg.Command.Flags().GetString("project-name")

	return logging.StartupInfo{
		Version:    meta.Version,
		APIVersion: apiVersion,
		Project:    project,
		Action:     string(r.cfg.Action),
		Notifiers:  r.notifier.GetNames(),
		NextRun:    nextRun,
	}
}

// closeEngine releases the engine connection, logging failures.
func closeEngine(engine engineClient) {
	if err := engine.Close(); err != nil {
		logrus.WithError(err).Debug("Failed to close engine client")
	}
}
