package compose

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Docker Compose labels.
const (
	// ComposeDependsOnLabel lists the services a container depends on as
	// comma-separated "service:condition:restart" items.
	ComposeDependsOnLabel = "com.docker.compose.depends_on"
	// ComposeProjectLabel specifies the project name of the container in Docker Compose.
	ComposeProjectLabel = "com.docker.compose.project"
	// ComposeServiceLabel specifies the service name of the container in Docker Compose.
	ComposeServiceLabel = "com.docker.compose.service"
)

// ParseDependsOnLabel returns the service names of a depends_on label value.
//
// Conditions and restart flags are dropped, as are empty items.
//
// Parameters:
//   - value: Raw com.docker.compose.depends_on value, e.g. "db:service_started:false,cache".
//
// Returns:
//   - []string: Service names in label order, nil for an empty value.
func ParseDependsOnLabel(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var services []string

	for item := range strings.SplitSeq(value, ",") {
		service, _, _ := strings.Cut(strings.TrimSpace(item), ":")
		if service = strings.TrimSpace(service); service != "" {
			services = append(services, service)
		}
	}

	logrus.WithFields(logrus.Fields{
		"label":    ComposeDependsOnLabel,
		"value":    value,
		"services": services,
	}).Trace("Parsed compose depends_on label")

	return services
}

// GetProjectName extracts the project name from Docker Compose labels.
//
// If the com.docker.compose.project label is present, returns its value.
// Otherwise, returns an empty string.
//
// Parameters:
//   - labels: Map of container labels.
//
// Returns:
//   - string: Project name if present, empty string otherwise.
func GetProjectName(labels map[string]string) string {
	if labels == nil {
		return ""
	}

	projectName, ok := labels[ComposeProjectLabel]
	if !ok {
		return ""
	}

	logrus.WithFields(logrus.Fields{
		"label": ComposeProjectLabel,
		"value": projectName,
	}).Trace("Retrieved compose project name")

	return projectName
}

// GetServiceName extracts the service name from Docker Compose labels.
//
// If the com.docker.compose.service label is present, returns its value.
// Otherwise, returns an empty string.
//
// Parameters:
//   - labels: Map of container labels.
//
// Returns:
//   - string: Service name if present, empty string otherwise.
func GetServiceName(labels map[string]string) string {
	if labels == nil {
		return ""
	}

	serviceName, ok := labels[ComposeServiceLabel]
	if !ok {
		return ""
	}

	logrus.WithFields(logrus.Fields{
		"label": ComposeServiceLabel,
		"value": serviceName,
	}).Trace("Retrieved compose service name")

	return serviceName
}
