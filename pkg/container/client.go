package container

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	dockerClient "github.com/docker/docker/client"

	"github.com/nicholas-fedor/composer/pkg/types"
)

// DefaultKillSignal is the signal sent by Kill when none is configured.
const DefaultKillSignal = "SIGKILL"

// Client lists project containers through the Docker API.
type Client struct {
	api dockerClient.APIClient
	ClientOptions
}

// ClientOptions configures container lifecycle calls.
type ClientOptions struct {
	StopTimeout   time.Duration // Grace period before a stopped container is killed; zero uses the engine default.
	KillSignal    string        // Signal sent by Kill; empty uses DefaultKillSignal.
	RemoveVolumes bool          // Remove anonymous volumes with the container.
}

// NewClient initializes a Client for the Docker host described by the environment.
//
// It configures the client from DOCKER_HOST and DOCKER_TLS_VERIFY. A valid
// DOCKER_API_VERSION pins the API version; otherwise it is negotiated.
//
// Parameters:
//   - opts: Lifecycle options applied to every container handle.
//
// Returns:
//   - *Client: Initialized client.
//   - error: Non-nil if the API client cannot be created.
func NewClient(opts ClientOptions) (*Client, error) {
	ctx := context.Background()

	cli, err := dockerClient.NewClientWithOpts(
		dockerClient.FromEnv,
		dockerClient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCreateClientFailed, err)
	}

	// Apply forced API version if set and valid.
	if version := strings.Trim(os.Getenv("DOCKER_API_VERSION"), "\""); version != "" {
		pingCli, err := dockerClient.NewClientWithOpts(
			dockerClient.FromEnv,
			dockerClient.WithVersion(version),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errCreateClientFailed, err)
		}

		if _, err := pingCli.Ping(ctx); err != nil &&
			strings.Contains(err.Error(), "page not found") {
			logrus.WithFields(logrus.Fields{
				"version":  version,
				"error":    err,
				"endpoint": "/_ping",
			}).Warn("Invalid API version; falling back to autonegotiation")
			cli.NegotiateAPIVersion(ctx)
		} else {
			cli = pingCli
		}
	} else {
		cli.NegotiateAPIVersion(ctx)
	}

	if serverVersion, err := cli.ServerVersion(ctx); err != nil {
		logrus.WithFields(logrus.Fields{
			"error":    err,
			"endpoint": "/version",
		}).Error("Failed to retrieve server version")
	} else {
		logrus.WithFields(logrus.Fields{
			"client_version": cli.ClientVersion(),
			"server_version": serverVersion.APIVersion,
		}).Debug("Initialized Docker client")
	}

	return newClient(cli, opts), nil
}

// newClient wraps an existing API client.
func newClient(api dockerClient.APIClient, opts ClientOptions) *Client {
	if opts.KillSignal == "" {
		opts.KillSignal = DefaultKillSignal
	}

	return &Client{
		api:           api,
		ClientOptions: opts,
	}
}

// ListProjectContainers retrieves every container, running or not, of a compose project.
//
// Parameters:
//   - ctx: Context for the API calls.
//   - project: Compose project name.
//
// Returns:
//   - []types.Container: Project containers with inspect metadata.
//   - error: Non-nil if listing fails, nil on success.
func (c *Client) ListProjectContainers(ctx context.Context, project string) ([]types.Container, error) {
	containers, err := listSourceContainers(ctx, c.api, c.ClientOptions, project)
	if err != nil {
		logrus.WithError(err).WithField("project", project).Debug("Failed to list project containers")

		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"project": project,
		"count":   len(containers),
	}).Debug("Listed project containers")

	return containers, nil
}

// Close releases the underlying API client's transport.
func (c *Client) Close() error {
	return c.api.Close() //nolint:wrapcheck
}

// APIVersion returns the Docker API version the client speaks.
func (c *Client) APIVersion() string {
	return c.api.ClientVersion()
}
