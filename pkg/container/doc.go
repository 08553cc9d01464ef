// Package container provides the Docker engine client used by the composition model.
// It lists the containers of a compose project and exposes each one as a handle
// that can be started, stopped, killed and removed.
//
// Key components:
//   - Client: Lists project containers through the Docker API.
//   - Container: Implements types.Container for a single inspected container.
//   - ClientOptions: Stop timeout, kill signal and volume removal settings.
//
// Usage example:
//
//	cli, err := container.NewClient(container.ClientOptions{StopTimeout: 10 * time.Second})
//	if err != nil {
//	    logrus.WithError(err).Fatal("Failed to initialize Docker client")
//	}
//	containers, _ := cli.ListProjectContainers(ctx, "myproj")
//	for _, c := range containers {
//	    _ = c.Stop(ctx)
//	}
//
// The client is configured from DOCKER_HOST, DOCKER_TLS_VERIFY and DOCKER_API_VERSION.
package container
