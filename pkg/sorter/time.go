package sorter

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/types"
)

// TimeSorter sorts entries by the creation time of their backing containers.
type TimeSorter struct{}

// Sort sorts entries in place by creation time. Entries without a backing
// container, or with an unparsable creation time, sort last in their existing order.
//
// Parameters:
//   - entries: Slice to sort in place.
//
// Returns:
//   - error: Always nil (no errors possible).
func (ts TimeSorter) Sort(entries []*compose.Entry) error {
	parsedTimes := make([]time.Time, len(entries))
	farFuture := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, entry := range entries {
		parsedTimes[i] = farFuture

		container, ok := entry.Handle().(types.Container)
		if !ok || container.ContainerInfo() == nil || container.ContainerInfo().ContainerJSONBase == nil {
			continue
		}

		created := container.ContainerInfo().Created

		createdTime, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"label":   entry.Label(),
				"created": created,
			}).WithError(err).Debug("Failed to parse created time, using far future time as fallback")

			continue
		}

		parsedTimes[i] = createdTime
	}

	sort.Stable(byCreated{entries: entries, parsedTimes: parsedTimes})

	return nil
}

// byCreated implements sort.Interface for creation time sorting.
type byCreated struct {
	entries     []*compose.Entry
	parsedTimes []time.Time
}

// Len returns the number of entries.
func (c byCreated) Len() int { return len(c.entries) }

// Swap exchanges two entries and their times by index.
func (c byCreated) Swap(i, j int) {
	c.entries[i], c.entries[j] = c.entries[j], c.entries[i]
	c.parsedTimes[i], c.parsedTimes[j] = c.parsedTimes[j], c.parsedTimes[i]
}

// Less reports whether entry i was created before entry j.
func (c byCreated) Less(i, j int) bool {
	return c.parsedTimes[i].Before(c.parsedTimes[j])
}
