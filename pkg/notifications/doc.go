// Package notifications delivers bulk lifecycle reports through Shoutrrr services.
// It renders a report with a configurable template and sends it to every configured URL.
//
// Key components:
//   - Notifier Creation: Configures a notifier from command flags (notifier.go).
//   - Shoutrrr Integration: Renders and sends report messages (shoutrrr.go).
//   - Templates: Built-in report templates (common_templates.go).
//   - JSON Marshaling: Report view used by templates and the json.v1 template (json.go).
//
// Usage example:
//
//	notifier := notifications.NewNotifier(cmd)
//	notifier.SendReport(report)
//
// Delivery failures are logged and never returned to the caller.
package notifications
