package format

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/docker/go-connections/nat"
	"github.com/sirupsen/logrus"

	dockerContainerType "github.com/docker/docker/api/types/container"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// Ports reduces a runtime port map to the declared port shape.
//
// Each binding yields one entry; an exposed port without bindings yields a
// single entry with an empty host port. The result is sorted.
//
// Parameters:
//   - portMap: NetworkSettings.Ports of an inspected container.
//
// Returns:
//   - []types.Port: Normalized ports, nil when portMap is empty.
func Ports(portMap nat.PortMap) []types.Port {
	if len(portMap) == 0 {
		return nil
	}

	ports := make([]types.Port, 0, len(portMap))

	for port, bindings := range portMap {
		if len(bindings) == 0 {
			ports = append(ports, types.Port{
				ContainerPort: port.Port(),
				Protocol:      port.Proto(),
			})

			continue
		}

		for _, binding := range bindings {
			ports = append(ports, types.Port{
				ContainerPort: port.Port(),
				HostPort:      binding.HostPort,
				HostIP:        binding.HostIP,
				Protocol:      port.Proto(),
			})
		}
	}

	slices.SortFunc(ports, ComparePorts)

	logrus.WithField("count", len(ports)).Trace("Normalized runtime ports")

	return ports
}

// ComparePorts orders ports numerically by container port, then host port,
// protocol and host IP.
func ComparePorts(a, b types.Port) int {
	return cmp.Or(
		cmp.Compare(portNumber(a.ContainerPort), portNumber(b.ContainerPort)),
		cmp.Compare(portNumber(a.HostPort), portNumber(b.HostPort)),
		cmp.Compare(a.Protocol, b.Protocol),
		cmp.Compare(a.HostIP, b.HostIP),
	)
}

// portNumber parses a port, returning -1 for empty or non-numeric values.
func portNumber(port string) int {
	n, err := strconv.Atoi(port)
	if err != nil {
		return -1
	}

	return n
}

// RestartPolicy serializes a runtime restart policy to its compose short form.
//
// Parameters:
//   - policy: HostConfig.RestartPolicy of an inspected container.
//
// Returns:
//   - string: "" for none or "no", "on-failure:N" when retries are capped, otherwise the mode name.
func RestartPolicy(policy dockerContainerType.RestartPolicy) string {
	switch policy.Name {
	case "", dockerContainerType.RestartPolicyDisabled:
		return ""
	case dockerContainerType.RestartPolicyOnFailure:
		if policy.MaximumRetryCount > 0 {
			return string(policy.Name) + ":" + strconv.Itoa(policy.MaximumRetryCount)
		}

		return string(policy.Name)
	default:
		return string(policy.Name)
	}
}
