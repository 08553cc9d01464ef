package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	cerrdefs "github.com/containerd/errdefs"
	dockerContainerType "github.com/docker/docker/api/types/container"
	dockerClient "github.com/docker/docker/client"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// Container represents a Docker container of a compose project.
//
// It implements types.Container and issues lifecycle calls through the API
// client it was inspected with.
type Container struct {
	containerInfo *dockerContainerType.InspectResponse
	api           dockerClient.APIClient
	opts          ClientOptions
}

// NewContainer creates a Container instance.
//
// Parameters:
//   - containerInfo: Container inspect metadata.
//   - api: Docker API client used for lifecycle calls.
//   - opts: Lifecycle options.
//
// Returns:
//   - *Container: New container instance.
func NewContainer(
	containerInfo *dockerContainerType.InspectResponse,
	api dockerClient.APIClient,
	opts ClientOptions,
) *Container {
	if opts.KillSignal == "" {
		opts.KillSignal = DefaultKillSignal
	}

	return &Container{
		containerInfo: containerInfo,
		api:           api,
		opts:          opts,
	}
}

// ContainerInfo returns the container's inspect metadata.
func (c *Container) ContainerInfo() *dockerContainerType.InspectResponse {
	return c.containerInfo
}

// ID returns the container's unique ID.
func (c *Container) ID() types.ContainerID {
	return types.ContainerID(c.containerInfo.ID)
}

// Name returns the container's name without the leading slash.
func (c *Container) Name() string {
	return strings.TrimPrefix(c.containerInfo.Name, "/")
}

// IsRunning reports whether the container was running when inspected.
func (c *Container) IsRunning() bool {
	return c.containerInfo.State != nil && c.containerInfo.State.Running
}

// Start starts the container.
//
// Parameters:
//   - ctx: Context for the API call.
//
// Returns:
//   - error: Non-nil if the engine rejects the start.
func (c *Container) Start(ctx context.Context) error {
	clog := c.logger()

	if err := c.api.ContainerStart(ctx, string(c.ID()), dockerContainerType.StartOptions{}); err != nil {
		clog.WithError(err).Debug("Failed to start container")

		return fmt.Errorf("%w: %w", errStartContainerFailed, err)
	}

	clog.Debug("Started container")

	return nil
}

// Stop stops the container, killing it after the configured timeout.
//
// Parameters:
//   - ctx: Context for the API call.
//
// Returns:
//   - error: Non-nil if the engine rejects the stop.
func (c *Container) Stop(ctx context.Context) error {
	clog := c.logger()
	options := dockerContainerType.StopOptions{}

	if c.opts.StopTimeout > 0 {
		seconds := int(c.opts.StopTimeout.Seconds())
		options.Timeout = &seconds
		clog = clog.WithField("timeout", c.opts.StopTimeout)
	}

	if err := c.api.ContainerStop(ctx, string(c.ID()), options); err != nil {
		clog.WithError(err).Debug("Failed to stop container")

		return fmt.Errorf("%w: %w", errStopContainerFailed, err)
	}

	clog.Debug("Stopped container")

	return nil
}

// Kill sends the configured signal to the container.
//
// Parameters:
//   - ctx: Context for the API call.
//
// Returns:
//   - error: Non-nil if the engine rejects the signal.
func (c *Container) Kill(ctx context.Context) error {
	clog := c.logger().WithField("signal", c.opts.KillSignal)

	if err := c.api.ContainerKill(ctx, string(c.ID()), c.opts.KillSignal); err != nil {
		clog.WithError(err).Debug("Failed to kill container")

		return fmt.Errorf("%w: %w", errKillContainerFailed, err)
	}

	clog.Debug("Killed container")

	return nil
}

// Remove force-removes the container. A container that is already gone counts as removed.
//
// Parameters:
//   - ctx: Context for the API call.
//
// Returns:
//   - error: Non-nil if the engine rejects the removal.
func (c *Container) Remove(ctx context.Context) error {
	clog := c.logger().WithField("remove_volumes", c.opts.RemoveVolumes)

	err := c.api.ContainerRemove(ctx, string(c.ID()), dockerContainerType.RemoveOptions{
		Force:         true,
		RemoveVolumes: c.opts.RemoveVolumes,
	})
	if err != nil && !cerrdefs.IsNotFound(err) {
		clog.WithError(err).Debug("Failed to remove container")

		return fmt.Errorf("%w: %w", errRemoveContainerFailed, err)
	}

	if err != nil {
		clog.Debug("Container already removed")

		return nil
	}

	clog.Debug("Removed container")

	return nil
}

func (c *Container) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"container": c.Name(),
		"id":        c.ID().ShortID(),
	})
}
