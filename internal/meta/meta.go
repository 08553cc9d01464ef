// Package meta holds build metadata injected at link time.
package meta

// Version is the composer release, set with
// -ldflags "-X github.com/nicholas-fedor/composer/internal/meta.Version=v1.2.3".
var Version = "v0.0.0-unknown"
