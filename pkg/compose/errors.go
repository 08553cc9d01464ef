package compose

import (
	"errors"
	"fmt"
)

// Errors for model loading in load.go.
var (
	// ErrNoProjectName indicates Load was called without a project name and the compose file declares none.
	ErrNoProjectName = errors.New("project name is required")
	// ErrNoEngine indicates running containers were requested without an engine client.
	ErrNoEngine = errors.New("engine client is required to load running containers")
	// ErrNoLoader indicates Load was called without a configuration loader.
	ErrNoLoader = errors.New("configuration loader is required")
	// errLoadConfig wraps loader failures.
	errLoadConfig = errors.New("failed to load compose configuration")
	// errListRunning wraps engine listing failures.
	errListRunning = errors.New("failed to list running containers")
)

// Errors for entry lifecycle operations in entry.go.
var (
	// ErrNoBackingContainer indicates a lifecycle action on an entry that has never been created on the engine.
	ErrNoBackingContainer = errors.New("entry has no backing container")
	// ErrUnknownAction indicates an unsupported lifecycle action.
	ErrUnknownAction = errors.New("unknown lifecycle action")
)

// ActionError records the failure of one lifecycle action on one entry.
type ActionError struct {
	Label  string // Entry label.
	Action Action // Attempted action.
	Err    error  // Engine-reported fault.
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Label, e.Err)
}

// Unwrap returns the underlying fault for errors.Is and errors.As.
func (e *ActionError) Unwrap() error {
	return e.Err
}
