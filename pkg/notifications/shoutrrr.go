package notifications

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"text/template"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/sirupsen/logrus"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/notifications/templates"
)

// LocalLog is a logrus logger for notification delivery messages.
var LocalLog = logrus.WithField("notify", "no")

// router defines the interface for sending Shoutrrr notifications.
// It abstracts the underlying service implementation.
type router interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// Notifier renders bulk action reports and sends them through Shoutrrr.
type Notifier struct {
	Urls     []string
	Router   router
	template *template.Template
	params   *shoutrrrTypes.Params
	data     StaticData
}

// GetScheme extracts the scheme part of a Shoutrrr URL.
// It returns "invalid" if no scheme is found.
func GetScheme(url string) string {
	schemeEnd := strings.Index(url, ":")
	if schemeEnd <= 0 {
		return "invalid"
	}

	return url[:schemeEnd]
}

// GetNames returns a list of notification service names derived from URLs.
func (n *Notifier) GetNames() []string {
	names := make([]string, len(n.Urls))
	for i, u := range n.Urls {
		names[i] = GetScheme(u)
	}

	return names
}

// createNotifier initializes a notifier for the given URLs.
//
// An unknown or invalid template falls back to the default template. Shoutrrr's
// own logging is redirected to logrus at trace level.
//
// Parameters:
//   - urls: Shoutrrr service URLs.
//   - tplString: Template text or the name of a built-in template.
//   - data: Static template data.
//
// Returns:
//   - *Notifier: Initialized notifier.
//   - error: Non-nil if a URL cannot be parsed by Shoutrrr.
func createNotifier(urls []string, tplString string, data StaticData) (*Notifier, error) {
	tpl, err := getShoutrrrTemplate(tplString)
	if err != nil {
		logrus.WithError(err).Error("Could not use configured notification template, using default template")

		tpl = template.Must(template.New("").Funcs(templates.Funcs).Parse(commonTemplates["default"]))
	}

	notifier := &Notifier{
		Urls:     urls,
		template: tpl,
		data:     data,
		params:   &shoutrrrTypes.Params{},
	}

	if data.Title != "" {
		notifier.params.SetTitle(data.Title)
	}

	if len(urls) == 0 {
		return notifier, nil
	}

	logger := log.New(logrus.StandardLogger().WriterLevel(logrus.TraceLevel), "Shoutrrr: ", 0)

	router, err := shoutrrr.NewSender(logger, urls...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shoutrrr notifications: %w", err)
	}

	notifier.Router = router

	return notifier, nil
}

// buildMessage renders the notification message for data.
func (n *Notifier) buildMessage(data Data) (string, error) {
	var body bytes.Buffer

	if err := n.template.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute notification template: %w", err)
	}

	return strings.TrimSpace(body.String()), nil
}

// SendReport renders report and sends it to every configured service.
//
// Empty messages are skipped. Per-service delivery failures are logged.
//
// Parameters:
//   - report: Bulk action report.
func (n *Notifier) SendReport(report *compose.Report) {
	if n == nil || n.Router == nil {
		return
	}

	msg, err := n.buildMessage(Data{StaticData: n.data, Report: newReportData(report)})
	if err != nil {
		LocalLog.WithError(err).Error("Notification template error")

		return
	}

	if msg == "" {
		LocalLog.Debug("Skipping notification due to empty message")

		return
	}

	errs := n.Router.Send(msg, n.params)

	for i, err := range errs {
		if err != nil {
			scheme := "invalid"
			if i < len(n.Urls) {
				scheme = GetScheme(n.Urls[i])
			}

			LocalLog.WithFields(logrus.Fields{
				"service": scheme,
				"index":   i,
			}).WithError(err).Error("Failed to send shoutrrr notification")
		}
	}
}

// getShoutrrrTemplate retrieves or generates a template for Shoutrrr notifications.
// It uses a provided template string or falls back to the default.
func getShoutrrrTemplate(tplString string) (*template.Template, error) {
	tplBase := template.New("").Funcs(templates.Funcs)

	if builtin, found := commonTemplates[tplString]; found {
		logrus.WithField(`template`, tplString).Debug(`Using common template`)
		tplString = builtin
	}

	if tplString == "" {
		tplString = commonTemplates[`default`]
	}

	tpl, err := tplBase.Parse(tplString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification template string: %w", err)
	}

	return tpl, nil
}
