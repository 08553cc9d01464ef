// Package flags manages command-line flags and environment variables for composer configuration.
// It configures Docker connections, project selection, run behavior and notifications via Cobra and Viper.
//
// Key components:
//   - RegisterDockerFlags: Adds Docker API client flags.
//   - RegisterSystemFlags: Adds project, action and scheduling flags.
//   - RegisterNotificationFlags: Adds notification settings.
//   - ReadClientOptions: Collects the container lifecycle settings.
//   - SetupLogging: Configures logrus based on flags.
//
// Usage example:
//
//	cmd := &cobra.Command{}
//	flags.SetDefaults()
//	flags.RegisterSystemFlags(cmd)
//	err := flags.SetupLogging(cmd.PersistentFlags())
//	if err != nil {
//	    logrus.WithError(err).Fatal("Logging setup failed")
//	}
//
// Every flag reads its default from a COMPOSER_ prefixed environment variable.
package flags
