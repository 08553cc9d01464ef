package loader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/distribution/reference"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	composeLoader "github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// placeholderProjectName is handed to compose-go when the file declares no name.
const placeholderProjectName = "composer-unnamed-project"

// Constants for flattening service configuration.
const (
	linkPartsCount  = 2     // Parts in a "service:alias" link.
	defaultProtocol = "tcp" // Port protocol when none is declared.
	readOnlySuffix  = ":ro" // Volume suffix for read-only mounts.
	noRestartPolicy = "no"  // Compose restart value equivalent to none.
)

// Loader reads compose files into service definitions.
type Loader struct {
	fs          afero.Fs
	environment []string
}

// New creates a Loader.
//
// Parameters:
//   - fs: Filesystem the compose file is read from.
//   - environment: KEY=VALUE pairs used for variable interpolation.
//
// Returns:
//   - *Loader: Configured loader.
func New(fs afero.Fs, environment []string) *Loader {
	return &Loader{
		fs:          fs,
		environment: environment,
	}
}

// Load reads and parses the compose file at path.
//
// Parameters:
//   - ctx: Context for the compose-go loader.
//   - path: Compose file path.
//
// Returns:
//   - *types.Definition: Declared project name and services sorted by name.
//   - error: Wraps types.ErrConfigNotFound when path does not exist, or a read or parse failure.
func (l *Loader) Load(ctx context.Context, path string) (*types.Definition, error) {
	clog := logrus.WithField("path", path)

	content, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			clog.Debug("Compose file not found")

			return nil, fmt.Errorf("%w: %s", types.ErrConfigNotFound, path)
		}

		return nil, fmt.Errorf("%w: %w", errReadFile, err)
	}

	var dict map[string]any
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidYAML, err)
	}

	if dict == nil {
		return nil, fmt.Errorf("%w: empty document", errInvalidYAML)
	}

	project, err := composeLoader.LoadWithContext(ctx, composeTypes.ConfigDetails{
		WorkingDir: filepath.Dir(path),
		ConfigFiles: []composeTypes.ConfigFile{
			{
				Filename: path,
				Content:  content,
				Config:   dict,
			},
		},
		Environment: composeTypes.NewMapping(l.environment),
	}, func(opts *composeLoader.Options) {
		opts.SetProjectName(placeholderProjectName, false)
		opts.SkipNormalization = true
		opts.SkipExtends = true
		opts.SkipConsistencyCheck = true
		opts.ResolvePaths = false
	})
	if err != nil {
		clog.WithError(err).Debug("Compose file rejected")

		return nil, fmt.Errorf("%w: %w", errParseProject, err)
	}

	definition := &types.Definition{
		Services: make([]types.ServiceDefinition, 0, len(project.Services)),
	}

	if project.Name != placeholderProjectName {
		definition.Name = project.Name
	}

	for _, name := range slices.Sorted(maps.Keys(project.Services)) {
		definition.Services = append(definition.Services, convertService(name, project.Services[name]))
	}

	clog.WithFields(logrus.Fields{
		"project":  definition.Name,
		"services": len(definition.Services),
	}).Debug("Parsed compose file")

	return definition, nil
}

// convertService flattens a compose-go service.
func convertService(name string, svc composeTypes.ServiceConfig) types.ServiceDefinition {
	def := types.ServiceDefinition{
		Name:          name,
		ContainerName: svc.ContainerName,
		Image:         svc.Image,
		Links:         convertLinks(svc.Links),
		Ports:         convertPorts(svc.Ports),
		Volumes:       convertVolumes(svc.Volumes),
		VolumesFrom:   slices.Clone(svc.VolumesFrom),
		Environment:   convertEnvironment(svc.Environment),
		Labels:        maps.Clone(svc.Labels),
		CPUShares:     svc.CPUShares,
		CPUQuota:      svc.CPUQuota,
		MemLimit:      int64(svc.MemLimit),
		MemSwapLimit:  int64(svc.MemSwapLimit),
	}

	if len(svc.Command) > 0 {
		def.Command = strings.Join(svc.Command, " ")
	}

	if svc.Restart != noRestartPolicy {
		def.Restart = svc.Restart
	}

	if svc.Build != nil {
		def.Build = &types.Build{
			Context:    svc.Build.Context,
			Dockerfile: svc.Build.Dockerfile,
		}
	}

	if def.Image != "" {
		if _, err := reference.ParseNormalizedNamed(def.Image); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"service": name,
				"image":   def.Image,
			}).Warn("Service declares an invalid image reference")
		}
	}

	return def
}

// convertLinks maps "service[:alias]" links to service -> alias.
func convertLinks(links []string) map[string]string {
	if len(links) == 0 {
		return nil
	}

	converted := make(map[string]string, len(links))

	for _, link := range links {
		parts := strings.SplitN(link, ":", linkPartsCount)
		if parts[0] == "" {
			continue
		}

		alias := parts[0]
		if len(parts) == linkPartsCount && parts[1] != "" {
			alias = parts[1]
		}

		converted[parts[0]] = alias
	}

	return converted
}

// convertPorts maps compose ports to the shared port shape.
func convertPorts(ports []composeTypes.ServicePortConfig) []types.Port {
	if len(ports) == 0 {
		return nil
	}

	converted := make([]types.Port, 0, len(ports))

	for _, port := range ports {
		protocol := port.Protocol
		if protocol == "" {
			protocol = defaultProtocol
		}

		converted = append(converted, types.Port{
			ContainerPort: strconv.FormatUint(uint64(port.Target), 10),
			HostPort:      port.Published,
			HostIP:        port.HostIP,
			Protocol:      protocol,
		})
	}

	return converted
}

// convertVolumes maps compose volumes to "source:target[:ro]" strings.
func convertVolumes(volumes []composeTypes.ServiceVolumeConfig) []string {
	if len(volumes) == 0 {
		return nil
	}

	converted := make([]string, 0, len(volumes))

	for _, volume := range volumes {
		spec := volume.Target
		if volume.Source != "" {
			spec = volume.Source + ":" + volume.Target
		}

		if volume.ReadOnly {
			spec += readOnlySuffix
		}

		converted = append(converted, spec)
	}

	return converted
}

// convertEnvironment maps the compose environment to sorted KEY=VALUE pairs.
// Variables without a value are omitted.
func convertEnvironment(environment composeTypes.MappingWithEquals) []string {
	if len(environment) == 0 {
		return nil
	}

	converted := make([]string, 0, len(environment))

	for key, value := range environment {
		if value == nil {
			continue
		}

		converted = append(converted, key+"="+*value)
	}

	slices.Sort(converted)

	return converted
}
