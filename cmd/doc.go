// Package cmd contains the command-line interface definitions and execution logic for composer.
// It provides the root command and subcommands that load a compose project and act on its containers.
//
// Key components:
//   - start, stop, kill, delete: Run a lifecycle action once, on a schedule, or on HTTP API requests.
//   - ls: List the containers of the project.
//   - graph: Print the link dependencies of the project.
//   - notify-test: Send a sample report through the configured notifications.
//
// Usage examples:
//   - Stop a project, dependents first:
//     composer -f docker-compose.yml stop --ordered
//   - Restart the web container every night:
//     composer start web --schedule "0 0 3 * * *"
package cmd
