// Package util provides small helpers shared by the composer commands.
//
// Key components:
//   - SliceSubtract: Removes elements from string slices.
//   - DefaultProjectName: Derives a project name from a directory.
//   - FormatDuration: Renders durations for schedule messages.
//
// Usage example:
//
//	unknown := util.SliceSubtract(requested, model.Labels())
//	project := util.DefaultProjectName(workingDir)
package util
