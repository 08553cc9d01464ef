package compose

import (
	"context"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// Model is the in-memory composition of a project: the set of entries keyed
// by label, their resolved links, and the bulk lifecycle operations over them.
//
// All methods are safe for concurrent use.
type Model struct {
	projectName string

	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewModel creates an empty model for project.
//
// Parameters:
//   - projectName: Namespace used for engine lookups and generated container names.
//
// Returns:
//   - *Model: Empty model.
func NewModel(projectName string) *Model {
	return &Model{
		projectName: projectName,
		entries:     map[string]*Entry{},
	}
}

// ProjectName returns the model's project name.
func (m *Model) ProjectName() string {
	return m.projectName
}

// AddOrUpdateContainer inserts entry under its label, replacing any previous
// entry and its dependency edges. Link resolution must run again afterwards.
//
// Parameters:
//   - entry: Entry to store; nil is ignored.
func (m *Model) AddOrUpdateContainer(entry *Entry) {
	if entry == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clog := logrus.WithFields(logrus.Fields{
		"label":   entry.Label(),
		"project": m.projectName,
	})

	if _, exists := m.entries[entry.Label()]; exists {
		clog.WithField("loaded_from_environment", entry.LoadedFromEnvironment()).
			Debug("Replacing existing entry")
	} else {
		clog.Debug("Adding entry")
	}

	m.entries[entry.Label()] = entry
}

// Get returns the entry stored under label.
func (m *Model) Get(label string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[label]

	return entry, ok
}

// Len returns the number of entries.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Labels returns every label, sorted.
func (m *Model) Labels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.entries))
}

// Entries returns every entry, sorted by label.
func (m *Model) Entries() []*Entry {
	return m.Select()
}

// Select snapshots the entries for labels, sorted by label.
//
// An empty label list selects every entry. Labels without an entry are ignored.
//
// Parameters:
//   - labels: Labels to select.
//
// Returns:
//   - []*Entry: Snapshot of the selected entries.
func (m *Model) Select(labels ...string) []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(labels) == 0 {
		labels = slices.Collect(maps.Keys(m.entries))
	}

	selected := make([]*Entry, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))

	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}

		seen[label] = struct{}{}

		if entry, ok := m.entries[label]; ok {
			selected = append(selected, entry)
		} else {
			logrus.WithField("label", label).Debug("Ignoring unknown label")
		}
	}

	slices.SortFunc(selected, func(a, b *Entry) int {
		return strings.Compare(a.Label(), b.Label())
	})

	return selected
}

// GetContainersBy returns every entry whose attributes include all criteria, sorted by label.
//
// Parameters:
//   - criteria: Attribute filter; empty returns every entry.
//
// Returns:
//   - []*Entry: Matching entries, empty when none match.
func (m *Model) GetContainersBy(criteria types.Criteria) []*Entry {
	matched := []*Entry{}

	for _, entry := range m.Select() {
		if entry.Matches(criteria) {
			matched = append(matched, entry)
		}
	}

	logrus.WithFields(logrus.Fields{
		"criteria": criteria,
		"matched":  len(matched),
	}).Debug("Filtered entries by attributes")

	return matched
}

// GetContainersByGivenName returns every entry whose full name is
// "{project}_{givenName}_{index}", sorted by label.
//
// Parameters:
//   - givenName: Service part of the generated container name.
//
// Returns:
//   - []*Entry: Matching entries, empty when none match.
func (m *Model) GetContainersByGivenName(givenName string) []*Entry {
	pattern := regexp.MustCompile(
		"^/?" + regexp.QuoteMeta(m.projectName) + "_" + regexp.QuoteMeta(givenName) + `_\d+$`,
	)

	matched := []*Entry{}

	for _, entry := range m.Select() {
		if pattern.MatchString(entry.FullName()) {
			matched = append(matched, entry)
		}
	}

	logrus.WithFields(logrus.Fields{
		"given_name": givenName,
		"matched":    len(matched),
	}).Debug("Filtered entries by given name")

	return matched
}

// LinkContainers resolves declared links into dependency edges.
//
// Entries loaded from the environment are skipped. Links to labels absent from
// the model are dropped. Repeated calls yield the same edge set.
func (m *Model) LinkContainers() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, label := range slices.Sorted(maps.Keys(m.entries)) {
		entry := m.entries[label]
		clog := logrus.WithField("label", label)

		if entry.LoadedFromEnvironment() {
			clog.Trace("Skipping link resolution for running container")

			continue
		}

		for _, target := range slices.Sorted(maps.Keys(entry.attributes.Links)) {
			dependency, ok := m.entries[target]
			if !ok {
				clog.WithField("link", target).Debug("Skipping unresolved link")

				continue
			}

			entry.AddDependency(dependency)
		}
	}
}

// Dependents returns the labels of entries that require label, sorted.
func (m *Model) Dependents(label string) []string {
	dependents := []string{}

	for _, entry := range m.Select() {
		if slices.Contains(entry.Requires(), label) {
			dependents = append(dependents, entry.Label())
		}
	}

	return dependents
}

// Requires returns the labels of the model's entries that must be running
// before the entry stored under label, sorted. Unknown labels yield nil.
func (m *Model) Requires(label string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[label]
	if !ok {
		return nil
	}

	return slices.DeleteFunc(entry.Requires(), func(required string) bool {
		_, known := m.entries[required]

		return !known
	})
}

// RemoveEntries drops each of entries still stored under its label. Entries
// replaced in the meantime are kept.
func (m *Model) RemoveEntries(entries ...*Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range entries {
		clog := logrus.WithField("label", entry.Label())

		if current, ok := m.entries[entry.Label()]; !ok || current != entry {
			clog.Debug("Keeping entry replaced during removal")

			continue
		}

		delete(m.entries, entry.Label())
		clog.Debug("Removed entry")
	}
}

// Remove drops the entries for labels. Unknown labels are ignored.
func (m *Model) Remove(labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, label := range labels {
		if _, ok := m.entries[label]; ok {
			delete(m.entries, label)
			logrus.WithField("label", label).Debug("Removed entry")
		}
	}
}

// Start starts the entries for labels, or every entry when labels is empty.
func (m *Model) Start(ctx context.Context, labels ...string) *Report {
	return m.dispatch(ctx, ActionStart, m.Select(labels...))
}

// Stop stops the entries for labels, or every entry when labels is empty.
func (m *Model) Stop(ctx context.Context, labels ...string) *Report {
	return m.dispatch(ctx, ActionStop, m.Select(labels...))
}

// Kill kills the entries for labels, or every entry when labels is empty.
func (m *Model) Kill(ctx context.Context, labels ...string) *Report {
	return m.dispatch(ctx, ActionKill, m.Select(labels...))
}

// Delete removes the backing containers for labels, or every entry when labels
// is empty, then drops every targeted entry from the model whatever its outcome.
// An entry replaced while the removal was in flight stays in the model.
func (m *Model) Delete(ctx context.Context, labels ...string) *Report {
	selected := m.Select(labels...)
	report := m.dispatch(ctx, ActionDelete, selected)

	m.RemoveEntries(selected...)

	return report
}

// dispatch issues action on each entry in order, recording every outcome.
func (m *Model) dispatch(ctx context.Context, action Action, entries []*Entry) *Report {
	report := NewReport(action)

	for _, entry := range entries {
		report.Record(entry.Label(), entry.Perform(ctx, action))
	}

	logrus.WithFields(logrus.Fields{
		"action":    action,
		"project":   m.projectName,
		"targeted":  report.Len(),
		"succeeded": len(report.Succeeded()),
	}).Debug("Completed bulk lifecycle action")

	return report
}
