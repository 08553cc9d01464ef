package types

import (
	"context"

	dockerContainer "github.com/docker/docker/api/types/container"
)

// Handle is the engine-side backing of a container entry.
type Handle interface {
	ID() ContainerID                  // Engine container ID.
	Name() string                     // Engine container name.
	Start(ctx context.Context) error  // Start the container.
	Stop(ctx context.Context) error   // Gracefully stop the container.
	Kill(ctx context.Context) error   // Send the kill signal.
	Remove(ctx context.Context) error // Remove the container.
}

// Container is a live container: a Handle that also carries its inspect metadata.
type Container interface {
	Handle
	ContainerInfo() *dockerContainer.InspectResponse // Engine inspect metadata.
}

// Engine defines the container engine operations the compose model consumes.
type Engine interface {
	// ListProjectContainers returns every container, running or not, whose
	// com.docker.compose.project label equals project.
	ListProjectContainers(ctx context.Context, project string) ([]Container, error)
}
