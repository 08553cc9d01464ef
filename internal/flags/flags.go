// Package flags manages command-line flags and environment variables for composer configuration.
package flags

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nicholas-fedor/composer/internal/util"
	"github.com/nicholas-fedor/composer/pkg/container"
)

// DockerAPIMinVersion specifies the minimum Docker API version required by composer.
// It ensures compatibility with the Docker client.
const DockerAPIMinVersion string = "1.44"

// defaultStopTimeoutSeconds defines the default timeout for stopping containers (10 seconds).
const defaultStopTimeoutSeconds = 10

// defaultComposeFile is the compose file read when --file is not given.
const defaultComposeFile = "docker-compose.yml"

// errInvalidLogFormat indicates an invalid log format was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogFormat = errors.New("invalid log format specified")

// errInvalidLogLevel indicates an invalid log level was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogLevel = errors.New("invalid log level specified")

// errSetEnvFailed indicates a failure to set an environment variable.
// It is used in setEnvOptStr to wrap os.Setenv errors.
var errSetEnvFailed = errors.New("failed to set environment variable")

// errOpenFileFailed indicates a failure to open a file for reading secrets.
var errOpenFileFailed = errors.New("failed to open secret file")

// errCloseFileFailed indicates a failure to close a file after reading secrets.
var errCloseFileFailed = errors.New("failed to close secret file")

// errReplaceSliceFailed indicates a failure to replace a slice value in a flag.
var errReplaceSliceFailed = errors.New("failed to replace slice value in flag")

// errReadFileFailed indicates a failure to read a file’s contents.
var errReadFileFailed = errors.New("failed to read secret file")

// errSetFlagFailed indicates a failure to read or set a flag’s value.
var errSetFlagFailed = errors.New("failed to set flag value")

// errInvalidFlagName indicates an invalid flag name was provided.
// It is used in appendFlagValue to report flag lookup errors.
var errInvalidFlagName = errors.New("invalid flag name provided")

// errNotSliceValue indicates a flag does not support slice values.
// It is used in appendFlagValue to report type errors.
var errNotSliceValue = errors.New("flag does not support slice values")

// errInvalidPorcelain indicates an unsupported porcelain version.
var errInvalidPorcelain = errors.New("unknown porcelain version")

// RegisterDockerFlags adds flags used directly by the Docker API client to the root command.
// These flags configure the Docker connection settings.
func RegisterDockerFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.StringP("host", "H", envString("DOCKER_HOST"), "daemon socket to connect to")
	flags.BoolP("tlsverify", "v", envBool("DOCKER_TLS_VERIFY"), "use TLS and verify the remote")
	flags.StringP(
		"api-version",
		"a",
		envString("DOCKER_API_VERSION"),
		"api version to use by docker client",
	)
}

// RegisterSystemFlags adds flags that select the project and control how actions run.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"file",
		"f",
		envString("COMPOSER_FILE"),
		"Compose file describing the project")

	flags.StringP(
		"project-name",
		"p",
		envString("COMPOSER_PROJECT_NAME"),
		"Project name (default: the compose file's name, then the working directory name)")

	flags.BoolP(
		"load-running",
		"",
		envBool("COMPOSER_LOAD_RUNNING"),
		"Reconcile the compose file with the project's containers on the engine")

	flags.BoolP(
		"parallel",
		"",
		envBool("COMPOSER_PARALLEL"),
		"Run the action on all targeted containers concurrently")

	flags.BoolP(
		"ordered",
		"",
		envBool("COMPOSER_ORDERED"),
		"Start dependencies before their dependents and stop dependents first")

	flags.DurationP(
		"stop-timeout",
		"t",
		envDuration("COMPOSER_STOP_TIMEOUT"),
		"Timeout before a container is forcefully stopped")

	flags.StringP(
		"kill-signal",
		"",
		envString("COMPOSER_KILL_SIGNAL"),
		"Signal sent to containers by kill")

	flags.BoolP(
		"remove-volumes",
		"",
		envBool("COMPOSER_REMOVE_VOLUMES"),
		"Remove anonymous volumes together with deleted containers")

	flags.StringP(
		"schedule",
		"s",
		envString("COMPOSER_SCHEDULE"),
		"The cron expression which defines when to repeat the action")

	flags.BoolP(
		"run-on-start",
		"",
		envBool("COMPOSER_RUN_ON_START"),
		"Run the action immediately, then on the schedule")

	flags.BoolP(
		"no-startup-message",
		"",
		envBool("COMPOSER_NO_STARTUP_MESSAGE"),
		"Prevents composer from logging a startup message in scheduled mode")

	flags.StringP(
		"metrics-textfile",
		"",
		envString("COMPOSER_METRICS_TEXTFILE"),
		"Write Prometheus metrics to this file after each run")

	flags.StringP(
		"log-format",
		"l",
		viper.GetString("COMPOSER_LOG_FORMAT"),
		"Sets what logging format to use for console output. Possible values: Auto, LogFmt, Pretty, JSON",
	)

	flags.BoolP(
		"debug",
		"d",
		envBool("COMPOSER_DEBUG"),
		"Enable debug mode with verbose logging")

	flags.BoolP(
		"trace",
		"",
		envBool("COMPOSER_TRACE"),
		"Enable trace mode with very verbose logging - caution, exposes credentials")

	flags.String(
		"log-level",
		envString("COMPOSER_LOG_LEVEL"),
		"The maximum log level that will be written to STDERR. Possible values: panic, fatal, error, warn, info, debug or trace",
	)

	// https://no-color.org/
	flags.BoolP(
		"no-color",
		"",
		viper.IsSet("NO_COLOR"),
		"Disable ANSI color escape codes in log output")

	flags.StringP(
		"porcelain",
		"P",
		envString("COMPOSER_PORCELAIN"),
		`Write action reports to stdout using a stable versioned format. Supported values: "v1"`)

	flags.BoolP(
		"http-api-run",
		"",
		envBool("COMPOSER_HTTP_API_RUN"),
		"Serve /v1/run so the action can be triggered by a request")

	flags.BoolP(
		"http-api-metrics",
		"",
		envBool("COMPOSER_HTTP_API_METRICS"),
		"Serve the Prometheus metrics at /v1/metrics")

	flags.StringP(
		"http-api-host",
		"",
		envString("COMPOSER_HTTP_API_HOST"),
		"Host to bind the HTTP API to (default: all interfaces)")

	flags.StringP(
		"http-api-port",
		"",
		envString("COMPOSER_HTTP_API_PORT"),
		"Port to bind the HTTP API to (default: 8080)")

	flags.StringP(
		"http-api-token",
		"",
		envString("COMPOSER_HTTP_API_TOKEN"),
		"Sets an authentication token to HTTP API requests.")
}

// RegisterNotificationFlags adds flags for configuring report notifications to the root command.
func RegisterNotificationFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringArray(
		"notification-url",
		envStringSlice("COMPOSER_NOTIFICATION_URL"),
		"The shoutrrr URL to send notifications to")

	flags.String(
		"notification-template",
		envString("COMPOSER_NOTIFICATION_TEMPLATE"),
		"The shoutrrr text/template for the messages")

	flags.StringP(
		"notifications-hostname",
		"",
		envString("COMPOSER_NOTIFICATIONS_HOSTNAME"),
		"Custom hostname for notification titles")

	flags.StringP(
		"notification-title-tag",
		"",
		envString("COMPOSER_NOTIFICATION_TITLE_TAG"),
		"Title prefix tag for notifications")

	flags.Bool("notification-skip-title",
		envBool("COMPOSER_NOTIFICATION_SKIP_TITLE"),
		"Do not pass the title param to notifications")
}

// envString retrieves a string value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

// envStringSlice retrieves a string slice from an environment variable via Viper.
func envStringSlice(key string) []string {
	viper.MustBindEnv(key)

	return viper.GetStringSlice(key)
}

// envBool retrieves a boolean value from an environment variable via Viper.
func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}

// envDuration retrieves a duration value from an environment variable via Viper.
func envDuration(key string) time.Duration {
	viper.MustBindEnv(key)

	return viper.GetDuration(key)
}

// SetDefaults configures default values for environment variables.
// It ensures consistent fallback behavior when flags or environment variables are unset.
func SetDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault("DOCKER_HOST", "unix:///var/run/docker.sock")
	viper.SetDefault("DOCKER_API_VERSION", DockerAPIMinVersion)
	viper.SetDefault("COMPOSER_FILE", defaultComposeFile)
	viper.SetDefault("COMPOSER_LOAD_RUNNING", true)
	viper.SetDefault("COMPOSER_STOP_TIMEOUT", time.Second*defaultStopTimeoutSeconds)
	viper.SetDefault("COMPOSER_KILL_SIGNAL", container.DefaultKillSignal)
	viper.SetDefault("COMPOSER_HTTP_API_PORT", "8080")
	viper.SetDefault("COMPOSER_NOTIFICATION_URL", []string{})
	viper.SetDefault("COMPOSER_LOG_LEVEL", "info")
	viper.SetDefault("COMPOSER_LOG_FORMAT", "auto")
}

// EnvConfig sets environment variables based on Docker-related flags.
// It configures the Docker client’s environment, returning an error if flag retrieval fails.
func EnvConfig(cmd *cobra.Command) error {
	var err error

	var host string

	var tls bool

	var version string

	flags := cmd.PersistentFlags()

	if host, err = flags.GetString("host"); err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if tls, err = flags.GetBool("tlsverify"); err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if version, err = flags.GetString("api-version"); err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if err = setEnvOptStr("DOCKER_HOST", host); err != nil {
		return err
	}

	if err = setEnvOptBool("DOCKER_TLS_VERIFY", tls); err != nil {
		return err
	}

	if err = setEnvOptStr("DOCKER_API_VERSION", version); err != nil {
		return err
	}

	return nil
}

// ReadClientOptions retrieves the engine client settings from flags.
//
// Returns:
//   - container.ClientOptions: Stop timeout, kill signal and volume removal settings.
//   - error: Non-nil if a flag is missing or has the wrong type.
func ReadClientOptions(cmd *cobra.Command) (container.ClientOptions, error) {
	flags := cmd.Flags()

	timeout, err := flags.GetDuration("stop-timeout")
	if err != nil {
		return container.ClientOptions{}, fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	signal, err := flags.GetString("kill-signal")
	if err != nil {
		return container.ClientOptions{}, fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	removeVolumes, err := flags.GetBool("remove-volumes")
	if err != nil {
		return container.ClientOptions{}, fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	return container.ClientOptions{
		StopTimeout:   timeout,
		KillSignal:    strings.ToUpper(signal),
		RemoveVolumes: removeVolumes,
	}, nil
}

// DefaultProjectName returns the project name derived from the working directory.
//
// It is the last fallback after --project-name and the compose file's own name.
func DefaultProjectName() string {
	dir, err := os.Getwd()
	if err != nil {
		logrus.WithError(err).Debug("Failed to read working directory")

		return ""
	}

	return util.DefaultProjectName(dir)
}

// setEnvOptStr sets an environment variable to a specified string value if needed.
// It skips setting if the value is empty or matches the current environment, returning an error if the set fails.
func setEnvOptStr(env string, opt string) error {
	if opt == "" || opt == os.Getenv(env) {
		return nil
	}

	if err := os.Setenv(env, opt); err != nil {
		return fmt.Errorf("%w: %s: %w", errSetEnvFailed, env, err)
	}

	return nil
}

// setEnvOptBool sets an environment variable to "1" if the boolean is true.
// It returns an error if the set operation fails, otherwise nil.
func setEnvOptBool(env string, opt bool) error {
	if opt {
		return setEnvOptStr(env, "1")
	}

	return nil
}

// GetSecretsFromFiles replaces flag values with file contents if they reference files.
// It processes a predefined list of secret-related flags, updating their values accordingly.
func GetSecretsFromFiles(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	secrets := []string{
		"notification-url",
		"http-api-token",
	}
	for _, secret := range secrets {
		if err := getSecretFromFile(flags, secret); err != nil {
			logrus.Fatalf("failed to get secret from flag %v: %s", secret, err)
		}
	}
}

// getSecretFromFile updates a flag’s value with file contents if it references a file.
// It handles both string and slice flags, returning an error if file operations fail.
func getSecretFromFile(flags *pflag.FlagSet, secret string) error {
	flag := flags.Lookup(secret)
	if sliceValue, ok := flag.Value.(pflag.SliceValue); ok {
		oldValues := sliceValue.GetSlice()
		values := make([]string, 0, len(oldValues))

		for _, value := range oldValues {
			if value != "" && isFilePath(value) {
				file, err := os.Open(value)
				if err != nil {
					return fmt.Errorf("%w: %w", errOpenFileFailed, err)
				}

				scanner := bufio.NewScanner(file)
				for scanner.Scan() {
					line := scanner.Text()
					if line == "" {
						continue
					}

					values = append(values, line)
				}

				if err := file.Close(); err != nil {
					return fmt.Errorf("%w: %w", errCloseFileFailed, err)
				}
			} else {
				values = append(values, value)
			}
		}

		if err := sliceValue.Replace(values); err != nil {
			return fmt.Errorf("%w: %w", errReplaceSliceFailed, err)
		}

		return nil
	}

	value := flag.Value.String()
	if value != "" && isFilePath(value) {
		content, err := os.ReadFile(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errReadFileFailed, err)
		}

		if err := flags.Set(secret, strings.TrimSpace(string(content))); err != nil {
			return fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}
	}

	return nil
}

// isFilePath determines if a string likely represents a file path.
// It checks for file existence, avoiding false positives from URLs or invalid Windows paths.
func isFilePath(path string) bool {
	firstColon := strings.IndexRune(path, ':')
	if firstColon != 1 && firstColon != -1 {
		// If ':' exists but isn’t the second character, it’s likely not a file path (e.g., URLs).
		return false
	}

	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}

// ProcessFlagAliases synchronizes flag values based on helper flags.
// It expands --porcelain into notification settings and --debug/--trace into a log level.
//
// Returns:
//   - error: Non-nil for an unknown porcelain version or a missing flag.
func ProcessFlagAliases(flags *pflag.FlagSet) error {
	porcelain, err := flags.GetString("porcelain")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if porcelain != "" {
		if porcelain != "v1" {
			return fmt.Errorf("%w: %q (supported values: \"v1\")", errInvalidPorcelain, porcelain)
		}

		if err = appendFlagValue(flags, "notification-url", "logger://"); err != nil {
			return err
		}

		tpl := fmt.Sprintf("porcelain.%s.summary", porcelain)
		setFlagIfDefault(flags, "notification-template", tpl)
	}

	if flagIsEnabled(flags, "debug") {
		if err := flags.Set("log-level", "debug"); err != nil {
			return fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}
	}

	if flagIsEnabled(flags, "trace") {
		if err := flags.Set("log-level", "trace"); err != nil {
			return fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}
	}

	return nil
}

// SetupLogging configures the global logger based on log-related flags.
// It sets the log format and level, returning an error for invalid configurations.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// configureLogFormat sets the logrus formatter based on the specified format and color preference.
// It returns an error if the format is invalid.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// flagIsEnabled checks if a boolean flag is set to true. Undefined flags count as disabled.
func flagIsEnabled(flags *pflag.FlagSet, name string) bool {
	value, err := flags.GetBool(name)
	if err != nil {
		logrus.WithField("flag", name).Debug("Flag is not defined")

		return false
	}

	return value
}

// appendFlagValue appends values to a slice-type flag.
// It returns an error if the flag is invalid or not a slice.
func appendFlagValue(flags *pflag.FlagSet, name string, values ...string) error {
	flag := flags.Lookup(name)
	if flag == nil {
		return fmt.Errorf("%w: %q", errInvalidFlagName, name)
	}

	flagValues, ok := flag.Value.(pflag.SliceValue)
	if !ok {
		return fmt.Errorf("%w: %q", errNotSliceValue, name)
	}

	for _, value := range values {
		if err := flagValues.Append(value); err != nil {
			logrus.Errorf("Failed to append value to flag %q: %v", name, err)
		}
	}

	return nil
}

// setFlagIfDefault sets a flag’s value if it hasn’t been explicitly changed.
// It logs an error if the set operation fails but continues execution.
func setFlagIfDefault(flags *pflag.FlagSet, name string, value string) {
	if flags.Changed(name) {
		return
	}

	if err := flags.Set(name, value); err != nil {
		logrus.Errorf("Failed to set flag: %v", err)
	}
}
