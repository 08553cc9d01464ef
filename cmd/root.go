package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/composer/internal/flags"
	"github.com/nicholas-fedor/composer/internal/util"
	"github.com/nicholas-fedor/composer/pkg/compose"
	"github.com/nicholas-fedor/composer/pkg/container"
	"github.com/nicholas-fedor/composer/pkg/loader"
	"github.com/nicholas-fedor/composer/pkg/types"
)

// errNegativeTimeout indicates a stop timeout below zero.
var errNegativeTimeout = errors.New("stop timeout must not be negative")

// engineClient is the engine connection used by the commands.
type engineClient interface {
	types.Engine
	APIVersion() string
	Close() error
}

// newEngine connects to the Docker host described by the environment.
var newEngine = func(opts container.ClientOptions) (engineClient, error) {
	client, err := container.NewClient(opts)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return client, nil
}

// newLoader returns the compose file loader.
var newLoader = func() types.Loader {
	return loader.New(afero.NewOsFs(), os.Environ())
}

// rootCmd represents the root command for the composer CLI.
var rootCmd = NewRootCommand()

// NewRootCommand creates and configures the root command for the composer CLI.
//
// Returns:
//   - *cobra.Command: Root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "composer",
		Short: "Runs lifecycle actions over the containers of a compose project",
		Long: "\nComposer loads a compose project, reconciles it with the containers on the engine," +
			"\nand starts, stops, kills or deletes them in bulk.",
		PersistentPreRunE: preRun,
		SilenceUsage:      true,
	}

	root.AddCommand(
		newActionCommand(compose.ActionStart, "Start containers, dependencies first when ordered"),
		newActionCommand(compose.ActionStop, "Stop containers, dependents first when ordered"),
		newActionCommand(compose.ActionKill, "Kill containers, dependents first when ordered"),
		newActionCommand(compose.ActionDelete, "Remove containers, dependents first when ordered"),
		newListCommand(),
		newGraphCommand(),
		newNotifyTestCommand(),
	)

	return root
}

// init registers command-line flags for the root command during package initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterDockerFlags(rootCmd)
	flags.RegisterSystemFlags(rootCmd)
	flags.RegisterNotificationFlags(rootCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Command failed")
	}
}

// preRun normalizes flags, configures logging and exports the Docker settings
// before any subcommand runs.
func preRun(cmd *cobra.Command, _ []string) error {
	flagsSet := cmd.Flags()

	if err := flags.ProcessFlagAliases(flagsSet); err != nil {
		return fmt.Errorf("failed to process flags: %w", err)
	}

	if err := flags.SetupLogging(flagsSet); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	flags.GetSecretsFromFiles(cmd.Root())

	if err := flags.EnvConfig(cmd.Root()); err != nil {
		return fmt.Errorf("failed to configure Docker environment: %w", err)
	}

	return nil
}

// loadModel builds the composition model from the compose file and, when
// --load-running is set, the project's containers on the engine.
//
// The returned engine is nil when the engine was not consulted. Callers close it.
func loadModel(ctx context.Context, cmd *cobra.Command) (*compose.Model, engineClient, error) {
	flagsSet := cmd.Flags()

	path, _ := flagsSet.GetString("file")
	projectName, _ := flagsSet.GetString("project-name")
	loadRunning, _ := flagsSet.GetBool("load-running")

	opts := compose.LoadOptions{
		Path:        path,
		LoadRunning: loadRunning,
		ProjectName: projectName,
		DefaultName: flags.DefaultProjectName(),
		Loader:      newLoader(),
	}

	var engine engineClient

	if loadRunning {
		clientOpts, err := flags.ReadClientOptions(cmd)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read client options: %w", err)
		}

		if clientOpts.StopTimeout < 0 {
			return nil, nil, errNegativeTimeout
		}

		engine, err = newEngine(clientOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to engine: %w", err)
		}

		opts.Engine = engine
	}

	model, err := compose.Load(ctx, opts)
	if err != nil {
		if engine != nil {
			_ = engine.Close()
		}

		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}

	// Notification titles read the resolved name.
	if projectName == "" {
		_ = flagsSet.Set("project-name", model.ProjectName())
	}

	logrus.WithFields(logrus.Fields{
		"project": model.ProjectName(),
		"entries": model.Len(),
		"path":    path,
	}).Debug("Loaded composition model")

	return model, engine, nil
}

// warnUnknownLabels logs the requested labels the model has no entry for.
func warnUnknownLabels(model *compose.Model, labels []string) {
	for _, label := range util.SliceSubtract(labels, model.Labels()) {
		logrus.WithFields(logrus.Fields{
			"label":   label,
			"project": model.ProjectName(),
		}).Warn("No container with this label in the project")
	}
}
