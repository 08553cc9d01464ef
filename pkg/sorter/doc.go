// Package sorter provides ordering for the entries of a composition model.
// It implements dependency-based topological sorting and creation time ordering.
//
// Key components:
//   - SortByDependencies: Sorts entries in place so dependencies precede dependents, detecting circular references.
//   - SortByCreated: Sorts entries in place by backing container creation time.
//   - DetectCycles: Reports every label that takes part in a dependency cycle.
//   - Sorter: Common interface for all sorting implementations.
//
// Usage example:
//
//	entries := model.Select("web", "db")
//	if err := sorter.SortByDependencies(entries); err != nil {
//	    logrus.WithError(err).Error("Dependency sort failed")
//	}
//
// Only edges between the entries being sorted are followed.
package sorter
