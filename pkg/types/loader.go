package types

import (
	"context"
)

// ServiceDefinition is a single service as declared in a compose file.
type ServiceDefinition struct {
	Name          string            // Service name, used as the entry label.
	ContainerName string            // Explicit container_name, empty if unset.
	Image         string            // Image reference.
	Build         *Build            // Build specification, nil when absent.
	Links         map[string]string // Referenced service -> alias.
	Ports         []Port            // Port mappings.
	Volumes       []string          // Volume specifications.
	VolumesFrom   []string          // volumes_from entries.
	Command       string            // Command joined into one string.
	Environment   []string          // KEY=VALUE pairs, sorted.
	Labels        map[string]string // Service labels.
	Restart       string            // Restart policy.
	CPUShares     int64             // cpu_shares.
	CPUQuota      int64             // cpu_quota.
	MemLimit      int64             // mem_limit in bytes.
	MemSwapLimit  int64             // memswap_limit in bytes.
}

// Definition is the parsed content of a compose file.
type Definition struct {
	Name     string              // Top-level project name, empty if undeclared.
	Services []ServiceDefinition // Services in deterministic order.
}

// Loader turns a compose file into service definitions.
type Loader interface {
	// Load parses the file at path. It fails with ErrConfigNotFound when the
	// path does not exist.
	Load(ctx context.Context, path string) (*Definition, error)
}
