// Package mocks provides test doubles for the compose model's collaborators.
package mocks

import (
	"context"
	"sync"

	"github.com/docker/go-connections/nat"

	dockerContainerType "github.com/docker/docker/api/types/container"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// Container is a mock live container that records the lifecycle calls it receives.
type Container struct {
	info *dockerContainerType.InspectResponse

	mu     sync.Mutex
	calls  []string
	Errors map[string]error // Error returned per call ("start", "stop", "kill", "remove").
	OnCall func(call string) // Invoked before each recorded call, if set.
}

// ContainerUpdate mutates the inspect metadata of a mock container.
type ContainerUpdate func(*dockerContainerType.InspectResponse)

// NewContainer creates a mock container named name with the given updates applied.
func NewContainer(name string, updates ...ContainerUpdate) *Container {
	info := dockerContainerType.InspectResponse{
		ContainerJSONBase: &dockerContainerType.ContainerJSONBase{
			ID:         "sha256:" + name + "0123456789abcdef",
			Image:      "sha256:image",
			Name:       "/" + name,
			HostConfig: &dockerContainerType.HostConfig{},
		},
		Config: &dockerContainerType.Config{
			Labels: map[string]string{},
		},
	}

	for _, update := range updates {
		update(&info)
	}

	return &Container{
		info:   &info,
		Errors: map[string]error{},
	}
}

// WithImage sets the configured image name.
func WithImage(image string) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.Config.Image = image
	}
}

// WithCmd sets the container command.
func WithCmd(cmd ...string) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.Config.Cmd = cmd
	}
}

// WithLinks sets the host config links.
func WithLinks(links ...string) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.HostConfig.Links = links
	}
}

// WithLabels sets the container labels.
func WithLabels(labels map[string]string) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.Config.Labels = labels
	}
}

// WithEnv sets the container environment.
func WithEnv(env ...string) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.Config.Env = env
	}
}

// WithPorts sets the runtime port map.
func WithPorts(ports nat.PortMap) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.NetworkSettings = &dockerContainerType.NetworkSettings{}
		c.NetworkSettings.Ports = ports
	}
}

// WithRestartPolicy sets the host config restart policy.
func WithRestartPolicy(policy dockerContainerType.RestartPolicy) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.HostConfig.RestartPolicy = policy
	}
}

// WithResources sets CPU and memory limits.
func WithResources(cpuShares, cpuQuota, memory, memorySwap int64) ContainerUpdate {
	return func(c *dockerContainerType.InspectResponse) {
		c.HostConfig.CPUShares = cpuShares
		c.HostConfig.CPUQuota = cpuQuota
		c.HostConfig.Memory = memory
		c.HostConfig.MemorySwap = memorySwap
	}
}

// ContainerInfo returns the mock inspect metadata.
func (c *Container) ContainerInfo() *dockerContainerType.InspectResponse {
	return c.info
}

// ID returns the mock container ID.
func (c *Container) ID() types.ContainerID {
	return types.ContainerID(c.info.ID)
}

// Name returns the container name without the leading slash.
func (c *Container) Name() string {
	return c.info.Name[1:]
}

// Start records a start call.
func (c *Container) Start(_ context.Context) error { return c.record("start") }

// Stop records a stop call.
func (c *Container) Stop(_ context.Context) error { return c.record("stop") }

// Kill records a kill call.
func (c *Container) Kill(_ context.Context) error { return c.record("kill") }

// Remove records a remove call.
func (c *Container) Remove(_ context.Context) error { return c.record("remove") }

// Calls returns the recorded calls in order.
func (c *Container) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.calls...)
}

func (c *Container) record(call string) error {
	if c.OnCall != nil {
		c.OnCall(call)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, call)

	return c.Errors[call]
}
