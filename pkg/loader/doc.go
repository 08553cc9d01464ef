// Package loader reads Docker Compose files into service definitions.
// It parses the file with compose-go, keeps the subset of service configuration
// the composition model tracks, and reports a missing file as types.ErrConfigNotFound.
//
// Key components:
//   - Loader: Reads compose files through an afero filesystem.
//   - New: Creates a Loader with an interpolation environment.
//
// Usage example:
//
//	l := loader.New(afero.NewOsFs(), os.Environ())
//	def, err := l.Load(ctx, "docker-compose.yml")
//	if errors.Is(err, types.ErrConfigNotFound) {
//	    logrus.Fatal("No compose file")
//	}
//
// Links, ports, volumes and environment are flattened into the shapes used by
// live containers so declared and running entries compare equal.
package loader
