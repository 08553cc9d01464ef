package sorter

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/compose"
)

// DependencySorter handles topological sorting by dependencies.
type DependencySorter struct{}

// Sort sorts entries in place so every entry follows the entries it depends on.
//
// Entries without dependencies keep their relative order at the front.
//
// Parameters:
//   - entries: Slice to sort in place.
//
// Returns:
//   - error: Non-nil if circular reference detected, nil on success.
func (ds DependencySorter) Sort(entries []*compose.Entry) error {
	logrus.WithField("entry_count", len(entries)).Debug("Starting dependency sort")

	sorter := dependencySorter{
		unvisited: nil, // Entries yet to be visited
		marked:    nil, // Marks entries on the current path for cycle detection
		sorted:    nil, // Sorted result
	}

	sorted, err := sorter.sort(entries)
	if err != nil {
		logrus.WithError(err).Debug("Dependency sort failed")

		return err
	}

	copy(entries, sorted)

	logrus.WithField("sorted_order", labelsOf(entries)).Debug("Completed dependency sort")

	return nil
}

// dependencySorter handles topological sorting by dependencies.
type dependencySorter struct {
	unvisited []*compose.Entry // Yet-to-visit entries.
	marked    map[string]bool  // Labels on the current visit path.
	path      []string         // Current visit path, for cycle reporting.
	sorted    []*compose.Entry // Sorted result.
}

// sort performs topological sort on entries.
//
// Parameters:
//   - entries: List to sort.
//
// Returns:
//   - []*compose.Entry: Sorted list.
//   - error: Non-nil if circular reference detected, nil on success.
func (ds *dependencySorter) sort(entries []*compose.Entry) ([]*compose.Entry, error) {
	ds.unvisited = slices.Clone(entries)
	ds.marked = map[string]bool{}
	ds.sorted = make([]*compose.Entry, 0, len(entries))

	// Process entries with no dependencies first.
	for i := 0; i < len(ds.unvisited); i++ {
		if len(ds.unvisited[i].Requires()) == 0 {
			if err := ds.visit(ds.unvisited[i]); err != nil {
				return nil, err
			}

			i-- // Adjust for removal.
		}
	}

	// Process remaining entries.
	for len(ds.unvisited) > 0 {
		if err := ds.visit(ds.unvisited[0]); err != nil {
			return nil, err
		}
	}

	return ds.sorted, nil
}

// visit adds an entry to the sorted list after its dependencies.
//
// Parameters:
//   - entry: Entry to visit.
//
// Returns:
//   - error: Non-nil if circular reference detected, nil on success.
func (ds *dependencySorter) visit(entry *compose.Entry) error {
	label := entry.Label()

	if ds.marked[label] {
		cycle := append(slices.Clone(ds.path[slices.Index(ds.path, label):]), label)

		logrus.WithFields(logrus.Fields{
			"label": label,
			"cycle": cycle,
		}).Debug("Detected circular reference")

		return CircularReferenceError{Label: label, CyclePath: cycle}
	}

	// Mark as visited, unmark on exit.
	ds.marked[label] = true
	ds.path = append(ds.path, label)

	defer func() {
		delete(ds.marked, label)
		ds.path = ds.path[:len(ds.path)-1]
	}()

	for _, dependency := range entry.Requires() {
		if dependent := ds.findUnvisited(dependency); dependent != nil {
			if err := ds.visit(dependent); err != nil {
				return err
			}
		}
	}

	ds.removeUnvisited(label)
	ds.sorted = append(ds.sorted, entry)
	logrus.WithField("label", label).Trace("Added entry to sorted list")

	return nil
}

// findUnvisited finds an unvisited entry by label.
func (ds *dependencySorter) findUnvisited(label string) *compose.Entry {
	for _, entry := range ds.unvisited {
		if entry.Label() == label {
			return entry
		}
	}

	return nil
}

// removeUnvisited removes an entry from the unvisited list.
func (ds *dependencySorter) removeUnvisited(label string) {
	ds.unvisited = slices.DeleteFunc(ds.unvisited, func(entry *compose.Entry) bool {
		return entry.Label() == label
	})
}

// labelsOf returns the labels of entries in order.
func labelsOf(entries []*compose.Entry) []string {
	labels := make([]string, len(entries))
	for i, entry := range entries {
		labels[i] = entry.Label()
	}

	return labels
}
