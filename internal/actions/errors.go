package actions

import "errors"

// Errors for bulk action runs.
var (
	// errNilModel indicates Run was called without a model.
	errNilModel = errors.New("composition model is required")
	// errSortDependenciesFailed indicates a failure to order entries by dependencies.
	errSortDependenciesFailed = errors.New("failed to sort entries by dependencies")
)
