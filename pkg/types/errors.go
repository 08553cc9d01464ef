package types

import (
	"errors"
)

// ErrConfigNotFound indicates the compose file handed to a Loader does not exist.
var ErrConfigNotFound = errors.New("compose file not found")
