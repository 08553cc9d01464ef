package sorter

import (
	"errors"
	"strings"
)

// ErrCircularReference indicates a circular dependency between entries.
var ErrCircularReference = errors.New("circular reference detected")

// CircularReferenceError represents a circular dependency error with the entry label and cycle path.
type CircularReferenceError struct {
	Label     string
	CyclePath []string
}

// Error implements the error interface.
func (e CircularReferenceError) Error() string {
	if len(e.CyclePath) > 0 {
		return "circular reference detected: " + strings.Join(e.CyclePath, " -> ")
	}

	return "circular reference detected: " + e.Label
}

// Unwrap returns the underlying error for errors.Is compatibility.
func (e CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}
