// Package logging provides functions for logging startup information in composer.
// It handles the initialization messages, notifier setup logging, and schedule information display.
package logging

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/composer/internal/util"
	"github.com/nicholas-fedor/composer/pkg/notifications"
)

// StartupInfo describes the state reported when a scheduled run starts.
type StartupInfo struct {
	Version    string    // composer version.
	APIVersion string    // Negotiated Docker API version, empty without a client.
	Project    string    // Project name.
	Action     string    // Action being repeated.
	Notifiers  []string  // Configured notification service names.
	NextRun    time.Time // First scheduled run, zero when unscheduled.
}

// WriteStartupMessage logs startup information based on configuration flags.
//
// It reports composer's version, notification setup, the targeted project and
// scheduling information.
//
// Parameters:
//   - c: The cobra.Command instance, providing access to flags like --no-startup-message.
//   - info: Startup state to report.
func WriteStartupMessage(c *cobra.Command, info StartupInfo) {
	noStartupMessage, _ := c.Flags().GetBool("no-startup-message")

	startupLog := SetupStartupLogger(noStartupMessage)

	startupLog.Info("composer ", info.Version, " using Docker API v", info.APIVersion)

	LogNotifierInfo(startupLog, info.Notifiers)

	startupLog.WithFields(logrus.Fields{
		"project": info.Project,
		"action":  info.Action,
	}).Info("Managing compose project")

	LogScheduleInfo(startupLog, info.Action, info.NextRun)

	if textfile, _ := c.Flags().GetString("metrics-textfile"); textfile != "" {
		startupLog.WithField("path", textfile).Info("Writing metrics after each run")
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		startupLog.Warn(
			"Trace level enabled: log will include sensitive information as credentials and tokens",
		)
	}
}

// SetupStartupLogger returns the logger used for startup messages.
//
// When startup messages are suppressed, the local notification logger is used
// at debug level so the messages stay out of regular output.
//
// Parameters:
//   - noStartupMessage: Whether startup messages should be suppressed.
//
// Returns:
//   - *logrus.Entry: A configured log entry for writing startup messages.
func SetupStartupLogger(noStartupMessage bool) *logrus.Entry {
	if noStartupMessage {
		logger := logrus.New()
		logger.SetOutput(logrus.StandardLogger().Out)
		logger.SetLevel(logrus.PanicLevel)

		return logrus.NewEntry(logger)
	}

	return notifications.LocalLog
}

// LogNotifierInfo logs details about the notification setup.
//
// Parameters:
//   - log: The logrus.Entry used to write the notification information.
//   - notifierNames: A slice of strings representing the names of configured notifiers.
func LogNotifierInfo(log *logrus.Entry, notifierNames []string) {
	if len(notifierNames) > 0 {
		log.Info("Using notifications: " + strings.Join(notifierNames, ", "))
	} else {
		log.Info("Using no notifications")
	}
}

// LogScheduleInfo logs when action will next run.
//
// Parameters:
//   - log: The logrus.Entry used to write the schedule information.
//   - action: Action being run.
//   - sched: The time.Time of the first scheduled run, or zero if no schedule is set.
func LogScheduleInfo(log *logrus.Entry, action string, sched time.Time) {
	if sched.IsZero() {
		log.Info("Running a one time " + action)

		return
	}

	until := util.FormatDuration(time.Until(sched))
	log.Info("Scheduling next " + action + ": " + sched.Format("2006-01-02 15:04:05 -0700 MST"))
	log.Info("Note that the next " + action + " will be performed in " + until)
}
