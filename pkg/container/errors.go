package container

import (
	"errors"
)

// Errors for client initialization in client.go.
var (
	// errCreateClientFailed indicates the Docker API client could not be created.
	errCreateClientFailed = errors.New("failed to create docker client")
)

// Errors for container listing in container_source.go.
var (
	// errListContainersFailed indicates a failure to list containers from the Docker host.
	errListContainersFailed = errors.New("failed to list containers")
	// errInspectContainerFailed indicates a failure to inspect a container's details.
	errInspectContainerFailed = errors.New("failed to inspect container")
)

// Errors for container lifecycle operations in container.go.
var (
	// errStartContainerFailed indicates a failure to start a container.
	errStartContainerFailed = errors.New("failed to start container")
	// errStopContainerFailed indicates a failure to stop a container.
	errStopContainerFailed = errors.New("failed to stop container")
	// errKillContainerFailed indicates a failure to send a signal to a container.
	errKillContainerFailed = errors.New("failed to kill container")
	// errRemoveContainerFailed indicates a failure to remove a container from the host.
	errRemoveContainerFailed = errors.New("failed to remove container")
)
