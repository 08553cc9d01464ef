package cmd

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/notifications"
)

// errNoNotificationURL indicates notify-test was run without any notification URL.
var errNoNotificationURL = errors.New("no notification URL configured")

// newNotifyTestCommand creates the notify-test subcommand.
func newNotifyTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-test",
		Short: "Send a sample report through the configured notifications",
		Long:  "Renders the notification template with a sample start report and sends it to every notification URL.",
		Args:  cobra.NoArgs,
		RunE:  runNotifyTest,
	}
}

// runNotifyTest sends a sample report without touching the engine.
func runNotifyTest(cmd *cobra.Command, _ []string) error {
	notifier := notifications.NewNotifier(cmd)

	names := notifier.GetNames()
	if len(names) == 0 {
		return errNoNotificationURL
	}

	logrus.WithField("notifiers", strings.Join(names, ", ")).Info("Sending sample report")

	report := compose.NewReport(compose.ActionStart)
	report.Record("web", nil)
	report.Record("db", nil)
	report.Record("worker", compose.ErrNoBackingContainer)

	notifier.SendReport(report)

	return nil
}
