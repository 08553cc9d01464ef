package mocks

import (
	"context"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// Loader is a mock configuration loader returning a fixed definition.
type Loader struct {
	Definition *types.Definition
	Err        error
	Paths      []string // Paths passed to Load.
}

// Load returns the configured definition or error.
func (l *Loader) Load(_ context.Context, path string) (*types.Definition, error) {
	l.Paths = append(l.Paths, path)

	if l.Err != nil {
		return nil, l.Err
	}

	return l.Definition, nil
}

// Engine is a mock engine returning a fixed container list.
type Engine struct {
	Containers []types.Container
	Err        error
	Projects   []string // Projects passed to ListProjectContainers.
}

// ListProjectContainers returns the configured containers or error.
func (e *Engine) ListProjectContainers(_ context.Context, project string) ([]types.Container, error) {
	e.Projects = append(e.Projects, project)

	if e.Err != nil {
		return nil, e.Err
	}

	return e.Containers, nil
}
