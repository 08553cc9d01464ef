package sorter

import (
	"github.com/nicholas-fedor/composer/pkg/compose"
)

// Sorter provides a common interface for sorting entries.
type Sorter interface {
	Sort(entries []*compose.Entry) error
}

// SortByCreated sorts entries in place by creation time.
//
// Parameters:
//   - entries: Slice to sort in place.
//
// Returns:
//   - error: Always nil, propagated from sorter.Sort.
func SortByCreated(entries []*compose.Entry) error {
	sorter := TimeSorter{}

	return sorter.Sort(entries)
}

// SortByDependencies sorts entries in place so that dependencies come first.
//
// Parameters:
//   - entries: Slice to sort in place.
//
// Returns:
//   - error: Non-nil if circular reference detected, nil on success.
func SortByDependencies(entries []*compose.Entry) error {
	sorter := DependencySorter{}

	return sorter.Sort(entries)
}
