package loader

import "errors"

// Errors for compose file loading.
var (
	// errReadFile indicates the compose file exists but could not be read.
	errReadFile = errors.New("failed to read compose file")
	// errInvalidYAML indicates the compose file is not a YAML mapping.
	errInvalidYAML = errors.New("invalid compose YAML")
	// errParseProject indicates compose-go rejected the file.
	errParseProject = errors.New("failed to parse compose project")
)
