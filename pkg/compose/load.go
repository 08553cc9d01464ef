package compose

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// LoadOptions configures Load.
type LoadOptions struct {
	Path        string       // Compose file path.
	LoadRunning bool         // Also absorb live containers of the project.
	ProjectName string       // Project name; falls back to the file's top-level name.
	DefaultName string       // Used when neither ProjectName nor the file names the project.
	Loader      types.Loader // Compose file loader.
	Engine      types.Engine // Engine client, required when LoadRunning is set.
}

// Load builds a link-resolved model from a compose file and, optionally, the
// project's live containers.
//
// Declared services are added first; live containers then replace entries with
// the same label. Links are resolved once, after both passes, for declared
// entries only. Live entries are ordered by the links and depends_on label
// recorded on their containers.
//
// Parameters:
//   - ctx: Context for the loader and engine calls.
//   - opts: Load options.
//
// Returns:
//   - *Model: Populated model.
//   - error: Wraps types.ErrConfigNotFound when the file is missing, or another load failure.
func Load(ctx context.Context, opts LoadOptions) (*Model, error) {
	if opts.Loader == nil {
		return nil, ErrNoLoader
	}

	if opts.LoadRunning && opts.Engine == nil {
		return nil, ErrNoEngine
	}

	clog := logrus.WithField("path", opts.Path)

	definition, err := opts.Loader.Load(ctx, opts.Path)
	if err != nil {
		clog.WithError(err).Debug("Failed to load compose file")

		return nil, fmt.Errorf("%w: %w", errLoadConfig, err)
	}

	projectName := opts.ProjectName
	if projectName == "" {
		projectName = definition.Name
	}

	if projectName == "" {
		projectName = opts.DefaultName
	}

	if projectName == "" {
		return nil, ErrNoProjectName
	}

	model := NewModel(projectName)
	clog = clog.WithField("project", projectName)

	for _, service := range definition.Services {
		model.AddOrUpdateContainer(NewEntry(service, projectName))
	}

	clog.WithField("count", len(definition.Services)).Debug("Loaded declared services")

	if opts.LoadRunning {
		containers, err := opts.Engine.ListProjectContainers(ctx, projectName)
		if err != nil {
			clog.WithError(err).Debug("Failed to list running containers")

			return nil, fmt.Errorf("%w: %w", errListRunning, err)
		}

		for _, container := range containers {
			model.AddOrUpdateContainer(NewEntryFromContainer(container, projectName))
		}

		clog.WithField("count", len(containers)).Debug("Loaded running containers")
	}

	model.LinkContainers()

	clog.WithField("entries", model.Len()).Info("Loaded compose project")

	return model, nil
}
