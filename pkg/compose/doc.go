// Package compose provides the in-memory composition model of a Docker Compose project.
// It owns the set of container entries, resolves declared links into dependency edges,
// reconciles declared services with live containers, and fans lifecycle actions out by label.
//
// Key components:
//   - Model: Entries keyed by label with attribute and name filters and bulk start, stop, kill and delete.
//   - Entry: One logical container built from a declared service or a live container.
//   - Report: Per-label outcome of a bulk lifecycle action.
//   - Load: Builds a link-resolved model from a compose file and, optionally, the running project.
//
// Usage example:
//
//	model, err := compose.Load(ctx, compose.LoadOptions{
//	    Path:        "docker-compose.yml",
//	    LoadRunning: true,
//	    ProjectName: "myproj",
//	    Loader:      loader.New(afero.NewOsFs()),
//	    Engine:      client,
//	})
//	if err != nil {
//	    logrus.WithError(err).Fatal("Failed to load project")
//	}
//	report := model.Stop(ctx, "web")
//	if err := report.Err(); err != nil {
//	    logrus.WithError(err).Warn("Some containers failed to stop")
//	}
//
// A bulk action never stops at the first failure; every selected entry is attempted.
package compose
