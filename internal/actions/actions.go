package actions

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/metrics"
	"github.com/nicholas-fedor/composer/pkg/notifications"
	"github.com/nicholas-fedor/composer/pkg/sorter"
)

// Params configures a bulk action run.
type Params struct {
	Action   compose.Action // Lifecycle action to issue.
	Labels   []string       // Target labels; empty targets every entry.
	Parallel bool           // Issue the action on concurrent goroutines.
	Ordered  bool           // Respect link dependencies between targets.
}

// Notifier delivers action reports.
type Notifier interface {
	SendReport(report *compose.Report)
}

// Recorder collects action metrics.
type Recorder interface {
	Record(metric *metrics.Metric)
	SetManaged(count int)
}

// Run issues params.Action against the selected entries of model.
//
// Every targeted entry is attempted. Per-entry faults are collected in the
// report, not returned. A delete drops every targeted entry from the model.
//
// Parameters:
//   - ctx: Context for the engine calls.
//   - model: Composition model to act on.
//   - params: Run parameters.
//
// Returns:
//   - *compose.Report: Outcome per targeted label.
//   - error: Non-nil for an unknown action or, when ordered, a circular
//     reference among the targets. No engine call is made in either case.
func Run(ctx context.Context, model *compose.Model, params Params) (*compose.Report, error) {
	if model == nil {
		return nil, errNilModel
	}

	if !slices.Contains(compose.Actions, params.Action) {
		return nil, fmt.Errorf("%w: %q", compose.ErrUnknownAction, params.Action)
	}

	clog := logrus.WithFields(logrus.Fields{
		"action":   params.Action,
		"project":  model.ProjectName(),
		"parallel": params.Parallel,
		"ordered":  params.Ordered,
	})

	entries := model.Select(params.Labels...)

	waves, err := plan(entries, params)
	if err != nil {
		clog.WithError(err).Debug("Failed to plan action")

		return nil, err
	}

	clog.WithFields(logrus.Fields{
		"targets": len(entries),
		"waves":   len(waves),
	}).Debug("Planned action")

	report := compose.NewReport(params.Action)

	for _, wave := range waves {
		if params.Parallel {
			runParallel(ctx, params.Action, wave, report)
		} else {
			for _, entry := range wave {
				report.Record(entry.Label(), entry.Perform(ctx, params.Action))
			}
		}
	}

	if params.Action == compose.ActionDelete {
		model.RemoveEntries(entries...)
	}

	clog.WithFields(logrus.Fields{
		"succeeded": len(report.Succeeded()),
		"failed":    len(report.Failed()),
	}).Debug("Completed action")

	return report, nil
}

// RunWithNotifications runs an action, records its metrics and sends its report.
//
// Parameters:
//   - ctx: Context for the engine calls.
//   - model: Composition model to act on.
//   - params: Run parameters.
//   - notifier: Report destination; nil skips notification.
//   - recorder: Metrics destination; nil skips recording.
//
// Returns:
//   - *compose.Report: Outcome per targeted label.
//   - error: Non-nil if the run could not start.
func RunWithNotifications(
	ctx context.Context,
	model *compose.Model,
	params Params,
	notifier Notifier,
	recorder Recorder,
) (*compose.Report, error) {
	report, err := Run(ctx, model, params)
	if err != nil {
		return nil, err
	}

	metric := metrics.NewMetric(report)

	if recorder != nil {
		recorder.Record(metric)
		recorder.SetManaged(model.Len())
	}

	if notifier != nil {
		notifier.SendReport(report)
	} else {
		logrus.Debug("Notifier is nil, skipping report notification")
	}

	notifications.LocalLog.WithFields(logrus.Fields{
		"action":    metric.Action,
		"succeeded": metric.Succeeded,
		"failed":    metric.Failed,
	}).Info("Action completed")

	return report, nil
}

// plan groups entries into the waves they run in.
//
// Unordered runs use a single wave. Ordered runs place each entry one wave
// after the latest of its targeted requirements, reversed for every action
// but start.
func plan(entries []*compose.Entry, params Params) ([][]*compose.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	if !params.Ordered {
		return [][]*compose.Entry{entries}, nil
	}

	sorted := slices.Clone(entries)
	if err := sorter.SortByDependencies(sorted); err != nil {
		return nil, fmt.Errorf("%w: %w", errSortDependenciesFailed, err)
	}

	depth := make(map[string]int, len(sorted))
	waves := [][]*compose.Entry{}

	for _, entry := range sorted {
		level := 0

		for _, dependency := range entry.Requires() {
			if d, ok := depth[dependency]; ok && d+1 > level {
				level = d + 1
			}
		}

		depth[entry.Label()] = level

		if level == len(waves) {
			waves = append(waves, nil)
		}

		waves[level] = append(waves[level], entry)
	}

	if params.Action != compose.ActionStart {
		slices.Reverse(waves)
	}

	return waves, nil
}

// runParallel issues action on every entry of wave concurrently and waits for all of them.
func runParallel(ctx context.Context, action compose.Action, wave []*compose.Entry, report *compose.Report) {
	var group errgroup.Group

	for _, entry := range wave {
		group.Go(func() error {
			report.Record(entry.Label(), entry.Perform(ctx, action))

			return nil
		})
	}

	_ = group.Wait()
}
