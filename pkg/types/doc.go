// Package types defines the core data shapes and collaborator interfaces for composer.
// It provides the fixed attribute record of a container entry, the engine and loader
// contracts consumed by the compose model, and the identifiers shared between packages.
//
// Key components:
//   - Attributes: Fixed-shape record of a container's declared or observed configuration.
//   - Criteria: Attribute filter used to select entries from a model.
//   - Handle: Engine-side backing of an entry (start, stop, kill, remove).
//   - Container: A Handle that also exposes the engine's inspect metadata.
//   - Engine: Lists the live containers belonging to a project.
//   - Loader: Turns a compose file into an ordered list of service definitions.
//
// Usage example:
//
//	def, err := loader.Load(ctx, "docker-compose.yml")
//	if errors.Is(err, types.ErrConfigNotFound) {
//	    logrus.Fatal("No compose file")
//	}
//	for _, svc := range def.Services {
//	    fmt.Println(svc.Name, svc.Image)
//	}
package types
