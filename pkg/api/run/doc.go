// Package run provides the HTTP handler that triggers a lifecycle action.
//
// The /v1/run endpoint runs the configured action against the project,
// optionally limited to the labels given as "label" query parameters.
package run
