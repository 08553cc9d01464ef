package types

import (
	"maps"
	"slices"
)

// Attribute keys accepted in Criteria.
const (
	AttrLabel                 = "label"
	AttrFullName              = "container_name"
	AttrName                  = "name" // Alias of AttrFullName.
	AttrImage                 = "image"
	AttrBuild                 = "build"
	AttrLinks                 = "links"
	AttrPorts                 = "ports"
	AttrVolumes               = "volumes"
	AttrVolumesFrom           = "volumes_from"
	AttrCommand               = "command"
	AttrEnvironment           = "environment"
	AttrLabels                = "labels"
	AttrRestart               = "restart"
	AttrCPUShares             = "cpu_shares"
	AttrCPUQuota              = "cpu_quota"
	AttrMemLimit              = "mem_limit"
	AttrMemSwapLimit          = "memswap_limit"
	AttrProject               = "project"
	AttrLoadedFromEnvironment = "loaded_from_environment"
)

// Criteria selects entries by attribute value. Every key must be present on an
// entry and equal for the entry to match.
type Criteria map[string]any

// Build holds a declared image build specification.
type Build struct {
	Context    string // Build context directory.
	Dockerfile string // Dockerfile path relative to the context.
}

// Port is a port mapping reduced to the shape shared by declared and live containers.
type Port struct {
	ContainerPort string // Port inside the container, e.g. "80".
	HostPort      string // Published host port, empty when unpublished.
	HostIP        string // Host interface, empty for all interfaces.
	Protocol      string // "tcp", "udp" or "sctp".
}

// Attributes is the fixed-shape configuration of a single logical container.
//
// Declared entries fill it from the compose file; live entries fill it from
// engine inspect metadata. Unset fields keep their zero value.
type Attributes struct {
	Label        string            // Short, project-unique name.
	FullName     string            // Fully-qualified engine container name.
	Image        string            // Image reference.
	Build        *Build            // Build specification, nil when absent.
	Links        map[string]string // Referenced label -> alias.
	Ports        []Port            // Port mappings.
	Volumes      []string          // Volume specifications.
	VolumesFrom  []string          // Containers whose volumes are mounted.
	Command      string            // Command joined into one string.
	Environment  []string          // KEY=VALUE pairs.
	Labels       map[string]string // Free-form engine labels.
	Restart      string            // Short-form restart policy.
	CPUShares    int64             // Relative CPU weight.
	CPUQuota     int64             // CPU CFS quota in microseconds.
	MemLimit     int64             // Memory limit in bytes.
	MemSwapLimit int64             // Memory plus swap limit in bytes.
	Project      string            // Owning project name.
}

// Value returns the attribute stored under key.
//
// Parameters:
//   - key: One of the Attr* keys.
//
// Returns:
//   - any: Attribute value.
//   - bool: False if key is not an attribute name.
func (a Attributes) Value(key string) (any, bool) {
	switch key {
	case AttrLabel:
		return a.Label, true
	case AttrFullName, AttrName:
		return a.FullName, true
	case AttrImage:
		return a.Image, true
	case AttrBuild:
		return a.Build, true
	case AttrLinks:
		return a.Links, true
	case AttrPorts:
		return a.Ports, true
	case AttrVolumes:
		return a.Volumes, true
	case AttrVolumesFrom:
		return a.VolumesFrom, true
	case AttrCommand:
		return a.Command, true
	case AttrEnvironment:
		return a.Environment, true
	case AttrLabels:
		return a.Labels, true
	case AttrRestart:
		return a.Restart, true
	case AttrCPUShares:
		return a.CPUShares, true
	case AttrCPUQuota:
		return a.CPUQuota, true
	case AttrMemLimit:
		return a.MemLimit, true
	case AttrMemSwapLimit:
		return a.MemSwapLimit, true
	case AttrProject:
		return a.Project, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy so callers cannot mutate an entry's attributes.
func (a Attributes) Clone() Attributes {
	out := a

	if a.Build != nil {
		build := *a.Build
		out.Build = &build
	}

	out.Links = maps.Clone(a.Links)
	out.Labels = maps.Clone(a.Labels)
	out.Ports = slices.Clone(a.Ports)
	out.Volumes = slices.Clone(a.Volumes)
	out.VolumesFrom = slices.Clone(a.VolumesFrom)
	out.Environment = slices.Clone(a.Environment)

	return out
}
