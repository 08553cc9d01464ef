package compose

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/composer/pkg/format"
	"github.com/nicholas-fedor/composer/pkg/types"
)

// Action is a lifecycle transition issued against an entry.
type Action string

// Lifecycle actions.
const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionKill   Action = "kill"
	ActionDelete Action = "delete"
)

// Actions lists every lifecycle action.
var Actions = []Action{ActionStart, ActionStop, ActionKill, ActionDelete}

// Constants for parsing runtime container metadata.
const (
	linkPartsCount = 2 // Parts in a runtime link ("/name:/container/alias").
	labelSegment   = 1 // Index of the label in a "project_label_index" name.
)

// Entry is one logical container of a project.
//
// Attributes are fixed at construction. Dependencies are label keys into the
// owning model, added by link resolution. Entries built from running
// containers are never link-resolved; their start order comes from the engine
// links and the compose depends_on label recorded on the container.
type Entry struct {
	attributes            types.Attributes
	loadedFromEnvironment bool
	runtimeRequires       map[string]struct{}

	mu           sync.Mutex
	handle       types.Handle
	dependencies map[string]struct{}
}

// NewEntry creates an entry from a declared service.
//
// Parameters:
//   - def: Service definition produced by a Loader.
//   - project: Owning project name.
//
// Returns:
//   - *Entry: Entry with no backing container.
func NewEntry(def types.ServiceDefinition, project string) *Entry {
	entry := &Entry{
		attributes: types.Attributes{
			Label:        def.Name,
			FullName:     def.ContainerName,
			Image:        def.Image,
			Build:        def.Build,
			Links:        def.Links,
			Ports:        def.Ports,
			Volumes:      def.Volumes,
			VolumesFrom:  def.VolumesFrom,
			Command:      def.Command,
			Environment:  def.Environment,
			Labels:       def.Labels,
			Restart:      def.Restart,
			CPUShares:    def.CPUShares,
			CPUQuota:     def.CPUQuota,
			MemLimit:     def.MemLimit,
			MemSwapLimit: def.MemSwapLimit,
			Project:      project,
		}.Clone(),
		dependencies: map[string]struct{}{},
	}

	logrus.WithFields(logrus.Fields{
		"label":   entry.Label(),
		"image":   def.Image,
		"project": project,
	}).Debug("Created entry from declared service")

	return entry
}

// NewEntryFromContainer creates an entry from a live engine container.
//
// The label is the second "_"-separated segment of the container name, so
// project or service names that contain "_" yield the wrong label. A mismatch
// with the compose service label is logged, not corrected.
//
// Parameters:
//   - container: Live container with inspect metadata.
//   - project: Owning project name.
//
// Returns:
//   - *Entry: Entry backed by container and flagged as loaded from the environment.
func NewEntryFromContainer(container types.Container, project string) *Entry {
	info := container.ContainerInfo()

	attrs := types.Attributes{
		Project: project,
	}

	if info != nil && info.ContainerJSONBase != nil {
		attrs.FullName = strings.TrimPrefix(info.Name, "/")
		attrs.Label = labelFromName(attrs.FullName)
		attrs.Image = info.Image

		if info.HostConfig != nil {
			attrs.Links = parseRuntimeLinks(info.HostConfig.Links)
			attrs.VolumesFrom = slices.Clone(info.HostConfig.VolumesFrom)
			attrs.Restart = format.RestartPolicy(info.HostConfig.RestartPolicy)
			attrs.CPUShares = info.HostConfig.CPUShares
			attrs.CPUQuota = info.HostConfig.CPUQuota
			attrs.MemLimit = info.HostConfig.Memory
			attrs.MemSwapLimit = info.HostConfig.MemorySwap
		}
	}

	if info != nil && info.Config != nil {
		if info.Config.Image != "" {
			attrs.Image = info.Config.Image
		}

		if info.Config.Cmd != nil {
			attrs.Command = strings.Join(info.Config.Cmd, " ")
		}

		if len(info.Config.Volumes) > 0 {
			attrs.Volumes = slices.Sorted(maps.Keys(info.Config.Volumes))
		}

		attrs.Environment = slices.Clone(info.Config.Env)
		attrs.Labels = maps.Clone(info.Config.Labels)
	}

	if info != nil && info.NetworkSettings != nil {
		attrs.Ports = format.Ports(info.NetworkSettings.Ports)
	}

	clog := logrus.WithFields(logrus.Fields{
		"label":     attrs.Label,
		"container": attrs.FullName,
		"id":        container.ID().ShortID(),
	})

	if service := GetServiceName(attrs.Labels); service != "" && service != attrs.Label {
		clog.WithField("service", service).
			Warn("Container name does not split into its compose service name")
	}

	requires := runtimeRequires(attrs)

	clog.WithField("requires", slices.Sorted(maps.Keys(requires))).
		Debug("Created entry from running container")

	return &Entry{
		attributes:            attrs,
		loadedFromEnvironment: true,
		runtimeRequires:       requires,
		handle:                container,
		dependencies:          map[string]struct{}{},
	}
}

// runtimeRequires collects the labels a running container was started after:
// the labels of its linked containers and the services named by its compose
// depends_on label.
func runtimeRequires(attrs types.Attributes) map[string]struct{} {
	requires := map[string]struct{}{}

	for name := range attrs.Links {
		if label := labelFromName(name); label != "" {
			requires[label] = struct{}{}
		}
	}

	for _, service := range ParseDependsOnLabel(attrs.Labels[ComposeDependsOnLabel]) {
		requires[service] = struct{}{}
	}

	delete(requires, attrs.Label)

	return requires
}

// labelFromName returns the second "_"-separated segment of a container name.
func labelFromName(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) <= labelSegment {
		return ""
	}

	return parts[labelSegment]
}

// parseRuntimeLinks converts engine links ("/db:/proj_web_1/alias") to a label -> alias map.
func parseRuntimeLinks(links []string) map[string]string {
	if len(links) == 0 {
		return nil
	}

	parsed := make(map[string]string, len(links))

	for _, link := range links {
		parts := strings.SplitN(link, ":", linkPartsCount)
		name := strings.TrimPrefix(parts[0], "/")

		if name == "" {
			continue
		}

		alias := name
		if len(parts) == linkPartsCount {
			alias = parts[1][strings.LastIndex(parts[1], "/")+1:]
		}

		parsed[name] = alias
	}

	return parsed
}

// Label returns the entry's short name.
func (e *Entry) Label() string {
	return e.attributes.Label
}

// FullName returns the fully-qualified engine container name, empty if undeclared.
func (e *Entry) FullName() string {
	return e.attributes.FullName
}

// Attributes returns a copy of the entry's attributes.
func (e *Entry) Attributes() types.Attributes {
	return e.attributes.Clone()
}

// Links returns a copy of the declared links.
func (e *Entry) Links() map[string]string {
	return maps.Clone(e.attributes.Links)
}

// LoadedFromEnvironment reports whether the entry was built from a live container.
func (e *Entry) LoadedFromEnvironment() bool {
	return e.loadedFromEnvironment
}

// Handle returns the backing engine container, or nil.
func (e *Entry) Handle() types.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.handle
}

// SetHandle attaches a backing engine container, e.g. after an external create.
func (e *Entry) SetHandle(handle types.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handle = handle
}

// AddDependency records other as a dependency of the entry.
//
// Nil entries and self references are ignored; repeated calls are no-ops.
//
// Parameters:
//   - other: Entry this entry depends on.
func (e *Entry) AddDependency(other *Entry) {
	if other == nil || other == e || other.Label() == e.Label() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.dependencies[other.Label()] = struct{}{}
}

// Dependencies returns the labels this entry depends on, sorted.
func (e *Entry) Dependencies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Sorted(maps.Keys(e.dependencies))
}

// Requires returns the labels that must be running before this entry, sorted.
//
// For declared entries these are the resolved dependencies. Entries loaded
// from the environment add the labels read from their container metadata,
// which may name labels absent from the model.
func (e *Entry) Requires() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	requires := maps.Clone(e.dependencies)
	maps.Copy(requires, e.runtimeRequires)

	return slices.Sorted(maps.Keys(requires))
}

// DependsOn reports whether label is one of the entry's dependencies.
func (e *Entry) DependsOn(label string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.dependencies[label]

	return ok
}

// Start starts the backing container.
func (e *Entry) Start(ctx context.Context) error {
	return e.Perform(ctx, ActionStart)
}

// Stop stops the backing container.
func (e *Entry) Stop(ctx context.Context) error {
	return e.Perform(ctx, ActionStop)
}

// Kill kills the backing container.
func (e *Entry) Kill(ctx context.Context) error {
	return e.Perform(ctx, ActionKill)
}

// Delete removes the backing container.
func (e *Entry) Delete(ctx context.Context) error {
	return e.Perform(ctx, ActionDelete)
}

// Perform issues action against the backing container.
//
// Parameters:
//   - ctx: Context for the engine call.
//   - action: Lifecycle action to issue.
//
// Returns:
//   - error: ErrNoBackingContainer without a handle, ErrUnknownAction for an
//     unsupported action, otherwise the engine fault.
func (e *Entry) Perform(ctx context.Context, action Action) error {
	handle := e.Handle()
	clog := logrus.WithFields(logrus.Fields{
		"label":  e.Label(),
		"action": action,
	})

	if handle == nil {
		clog.Debug("Entry has no backing container")

		return ErrNoBackingContainer
	}

	clog = clog.WithField("container", handle.Name())

	var err error

	switch action {
	case ActionStart:
		err = handle.Start(ctx)
	case ActionStop:
		err = handle.Stop(ctx)
	case ActionKill:
		err = handle.Kill(ctx)
	case ActionDelete:
		err = handle.Remove(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil {
		clog.WithError(err).Debug("Lifecycle action failed")

		return err
	}

	clog.Info("Lifecycle action completed")

	return nil
}
