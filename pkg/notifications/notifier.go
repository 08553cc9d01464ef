package notifications

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewNotifier creates and returns a new Notifier, using global configuration.
//
// Parameters:
//   - c: Command whose flags hold the notification settings.
//
// Returns:
//   - *Notifier: Notifier; sending is a no-op when no URL is configured.
func NewNotifier(c *cobra.Command) *Notifier {
	flag := c.Flags()

	tplString, _ := flag.GetString("notification-template")
	urls, _ := flag.GetStringArray("notification-url")

	data := GetTemplateData(c)

	clog := logrus.WithFields(logrus.Fields{
		"urls":     len(urls),
		"template": tplString,
		"hostname": data.Host,
		"title":    data.Title,
	})
	clog.Debug("Creating notifier with configuration")

	notifier, err := createNotifier(urls, tplString, data)
	if err != nil {
		clog.WithError(err).Fatal("Failed to initialize notifications")
	}

	return notifier
}

// GetTitle formats the title based on the passed hostname, tag and project.
func GetTitle(hostname, tag, project string) string {
	titleBuilder := strings.Builder{}
	if tag != "" {
		titleBuilder.WriteRune('[')
		titleBuilder.WriteString(tag)
		titleBuilder.WriteRune(']')
		titleBuilder.WriteRune(' ')
	}

	titleBuilder.WriteString("Composer")

	if project != "" {
		titleBuilder.WriteString(" ")
		titleBuilder.WriteString(project)
	}

	titleBuilder.WriteString(" report")

	if hostname != "" {
		titleBuilder.WriteString(" on ")
		titleBuilder.WriteString(hostname)
	}

	return titleBuilder.String()
}

// GetTemplateData populates the static notification data from flags and environment.
func GetTemplateData(c *cobra.Command) StaticData {
	flag := c.Flags()

	hostname, _ := flag.GetString("notifications-hostname")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	project, _ := flag.GetString("project-name")

	title := ""

	if skip, _ := flag.GetBool("notification-skip-title"); !skip {
		tag, _ := flag.GetString("notification-title-tag")
		title = GetTitle(hostname, tag, project)
	}

	logrus.WithFields(logrus.Fields{
		"hostname": hostname,
		"title":    title,
	}).Debug("Populated template data")

	return StaticData{
		Host:    hostname,
		Title:   title,
		Project: project,
	}
}
