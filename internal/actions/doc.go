// Package actions runs bulk lifecycle actions over a composition model.
//
// Key components:
//   - Run: Issues one action against the selected entries, optionally in
//     dependency order and on parallel goroutines.
//   - RunWithNotifications: Runs an action, records its metrics and sends the report.
//
// Usage example:
//
//	report, err := actions.Run(ctx, model, actions.Params{
//	    Action:  compose.ActionStop,
//	    Ordered: true,
//	})
//	if err != nil {
//	    logrus.WithError(err).Error("Stop failed")
//	}
//
// Ordered runs start dependencies before their dependents and stop, kill or
// delete dependents first. Entries whose dependencies have all been handled
// form a wave; with Parallel set, each wave runs concurrently.
package actions
