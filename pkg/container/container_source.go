package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	cerrdefs "github.com/containerd/errdefs"
	dockerContainerType "github.com/docker/docker/api/types/container"
	dockerFiltersType "github.com/docker/docker/api/types/filters"
	dockerClient "github.com/docker/docker/client"

	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/types"
)

// listSourceContainers retrieves the containers labelled with project.
//
// Containers that vanish between listing and inspection are skipped.
//
// Parameters:
//   - ctx: Context for the API calls.
//   - api: Docker API client.
//   - opts: Options handed to each container handle.
//   - project: Compose project name.
//
// Returns:
//   - []types.Container: Project containers.
//   - error: Non-nil if listing or inspection fails, nil on success.
func listSourceContainers(
	ctx context.Context,
	api dockerClient.APIClient,
	opts ClientOptions,
	project string,
) ([]types.Container, error) {
	clog := logrus.WithField("project", project)

	clog.Debug("Retrieving container list")

	filterArgs := dockerFiltersType.NewArgs(
		dockerFiltersType.Arg("label", compose.ComposeProjectLabel+"="+project),
	)

	summaries, err := api.ContainerList(ctx, dockerContainerType.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		clog.WithError(err).Debug("Failed to list containers")

		return nil, fmt.Errorf("%w: %w", errListContainersFailed, err)
	}

	projectContainers := []types.Container{}

	for _, summary := range summaries {
		// Some engines ignore label filters; check the project again.
		if compose.GetProjectName(summary.Labels) != project {
			clog.WithField("container_id", summary.ID).Trace("Skipping container from another project")

			continue
		}

		container, err := getSourceContainer(ctx, api, opts, types.ContainerID(summary.ID))
		if err != nil {
			if cerrdefs.IsNotFound(err) {
				clog.WithField("container_id", summary.ID).Debug("Container vanished before inspection")

				continue
			}

			return nil, err
		}

		projectContainers = append(projectContainers, container)
	}

	clog.WithField("count", len(projectContainers)).Debug("Filtered container list")

	return projectContainers, nil
}

// getSourceContainer inspects a container by ID.
//
// Parameters:
//   - ctx: Context for the API call.
//   - api: Docker API client.
//   - opts: Options handed to the container handle.
//   - containerID: ID of the container to inspect.
//
// Returns:
//   - *Container: Inspected container.
//   - error: Non-nil if inspection fails, nil on success.
func getSourceContainer(
	ctx context.Context,
	api dockerClient.APIClient,
	opts ClientOptions,
	containerID types.ContainerID,
) (*Container, error) {
	clog := logrus.WithField("container_id", containerID.ShortID())

	clog.Trace("Inspecting container")

	containerInfo, err := api.ContainerInspect(ctx, string(containerID))
	if err != nil {
		clog.WithError(err).Debug("Failed to inspect container")

		return nil, fmt.Errorf("%w: %w", errInspectContainerFailed, err)
	}

	return NewContainer(&containerInfo, api, opts), nil
}
