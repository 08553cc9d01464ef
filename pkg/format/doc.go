// Package format converts engine runtime structures into the shapes used by
// declared compose configuration.
//
// Key components:
//   - Ports: Reduces a runtime port map to container-port/host-port/protocol entries.
//   - RestartPolicy: Serializes a runtime restart policy to its short form ("always", "on-failure:3").
//
// Usage example:
//
//	ports := format.Ports(info.NetworkSettings.Ports)
//	restart := format.RestartPolicy(info.HostConfig.RestartPolicy)
package format
