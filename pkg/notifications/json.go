package notifications

import (
	"maps"
	"slices"

	"github.com/nicholas-fedor/composer/pkg/compose"
)

// ReportData is the template view of a bulk action report.
type ReportData struct {
	Action    string        `json:"action"`
	Succeeded []string      `json:"succeeded"`
	Failed    []FailedEntry `json:"failed"`
}

// FailedEntry describes one entry the action failed on.
type FailedEntry struct {
	Label string `json:"label"`
	Error string `json:"error"`
}

// newReportData converts a report into its template view, with failures sorted by label.
//
// Parameters:
//   - report: Bulk action report; nil yields nil.
//
// Returns:
//   - *ReportData: Template view.
func newReportData(report *compose.Report) *ReportData {
	if report == nil {
		return nil
	}

	failed := report.Failed()
	data := &ReportData{
		Action:    string(report.Action()),
		Succeeded: report.Succeeded(),
		Failed:    make([]FailedEntry, 0, len(failed)),
	}

	for _, label := range slices.Sorted(maps.Keys(failed)) {
		data.Failed = append(data.Failed, FailedEntry{
			Label: label,
			Error: failed[label].Error(),
		})
	}

	return data
}
