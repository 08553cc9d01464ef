// Package scheduling repeats a composer action on a cron schedule.
// It handles periodic scheduling using cron specifications, prevents overlapping runs, and ensures
// graceful shutdown of scheduled operations.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

var (
	// errEmptySchedule indicates RunOnSchedule was called without a cron specification.
	errEmptySchedule = errors.New("schedule is required")
	// errScheduleFailed indicates the cron specification could not be parsed.
	errScheduleFailed = errors.New("failed to schedule action")
)

// Options configures RunOnSchedule.
type Options struct {
	Schedule   string                  // Cron specification, seconds first, or a descriptor such as "@every 1h".
	RunOnStart bool                    // Run once immediately before the first scheduled run.
	Lock       chan bool               // Guards against overlapping runs; nil creates one.
	OnStart    func(nextRun time.Time) // Called once the schedule is known, e.g. to log a startup message.
}

// WaitForRunningAction waits for any currently running action to complete before proceeding with shutdown.
// It checks the lock channel status and blocks with a timeout if an action is in progress.
//
// Parameters:
//   - ctx: The context for cancellation, allowing early shutdown on context timeout.
//   - lock: The channel used to synchronize runs, ensuring only one runs at a time.
func WaitForRunningAction(ctx context.Context, lock chan bool) {
	const updateWaitTimeout = 60 * time.Second

	logrus.Debug("Checking lock status before shutdown.")

	if len(lock) == 0 {
		select {
		case <-lock:
			logrus.Debug("Lock acquired, action finished.")
		case <-time.After(updateWaitTimeout):
			logrus.Warn("Timeout waiting for running action to finish, proceeding with shutdown.")
		case <-ctx.Done():
			logrus.Warn("Context cancelled while waiting for running action.")
		}
	} else {
		logrus.Debug("No action running, lock available.")
	}

	logrus.Debug("Lock check completed.")
}

// RunOnSchedule runs fn according to the cron specification until ctx is
// cancelled or the process receives SIGINT or SIGTERM.
//
// A tick that fires while the previous run still holds the lock is skipped.
//
// Parameters:
//   - ctx: The context controlling the scheduler's lifecycle.
//   - opts: Schedule options.
//   - fn: The action to repeat.
//
// Returns:
//   - error: Non-nil if the schedule is empty or invalid, nil on shutdown.
func RunOnSchedule(ctx context.Context, opts Options, fn func(context.Context)) error {
	if opts.Schedule == "" {
		return errEmptySchedule
	}

	lock := opts.Lock
	if lock == nil {
		lock = make(chan bool, 1)
		lock <- true
	}

	scheduler := cron.New()

	runFunc := func() {
		select {
		case v := <-lock:
			defer func() { lock <- v }()

			fn(ctx)
			logrus.Debug("Scheduled action completed")
		default:
			logrus.Debug("Skipped another action already running.")
		}

		if nextRuns := scheduler.Entries(); len(nextRuns) > 0 {
			logrus.Debug("Scheduled next run: " + nextRuns[0].Next.String())
		}
	}

	if err := scheduler.AddFunc(opts.Schedule, runFunc); err != nil {
		return fmt.Errorf("%w: %w", errScheduleFailed, err)
	}

	if opts.OnStart != nil {
		var nextRun time.Time
		if entries := scheduler.Entries(); len(entries) > 0 {
			nextRun = entries[0].Schedule.Next(time.Now())
		}

		opts.OnStart(nextRun)
	}

	if opts.RunOnStart {
		runFunc()
	}

	scheduler.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	defer signal.Stop(interrupt)

	select {
	case <-ctx.Done():
		logrus.Debug("Context canceled, stopping scheduler...")
	case <-interrupt:
		logrus.Debug("Received interrupt signal, stopping scheduler...")
	}

	scheduler.Stop()
	logrus.Debug("Waiting for running action to be finished...")

	WaitForRunningAction(ctx, lock)

	logrus.Debug("Scheduler stopped and action completed.")

	return nil
}
