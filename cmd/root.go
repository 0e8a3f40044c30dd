package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/readygate/pkg/config"
)

var cfgFile string

func NewCmdRoot(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "readygate",
		Short: "readygate, the readiness gate of the listing app",
		Long: "readygate checks that the Firebase backend of the listing app is configured and reachable.\n" +
			"The app's pages are only served once every readiness probe passed.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.readygate.yaml)")

	d := config.NewConfig()
	NewFlag(config.KeyFirebaseProjectID, "projectId").String().Bind(rootCmd, "", "firebase: The project id, also read from FIREBASE_PROJECT_ID")
	NewFlag(config.KeyFirebaseCredentialsFile, "credentialsFile").String().Bind(rootCmd, "", "firebase: Path to a service account file, application default credentials are used when empty")
	NewFlag(config.KeyFirebaseDatabaseID, "databaseId").String().Bind(rootCmd, d.Firebase.DatabaseID, "firebase: The Firestore database to connect to")
	NewFlag(config.KeyFirebaseEmulatorHost, "emulatorHost").String().Bind(rootCmd, "", "firebase: host:port of a local Firestore emulator")

	NewFlag(config.KeyApiAddress, "apiAddress").String().Bind(rootCmd, d.Api.ListeningAddress, "api: The address the server is listening on")
	NewFlag(config.KeyApiStaticDir, "staticDir").String().Bind(rootCmd, "", "api: Directory of the built front-end served once ready")
	NewFlag(config.KeyApiAllowedOrigins, "allowedOrigins").StringSlice().Bind(rootCmd, nil, "api: CORS origins allowed to query the api, all when empty")

	NewFlag(config.KeyCheckerMode, "mode").StringP("m").Bind(rootCmd, string(d.Checker.Mode), "checker: startup runs the required probes, setup additionally writes a marker document and probes auth and storage")
	NewFlag(config.KeyCheckerExpectedProjectIDs, "expectedProjectIds").StringSlice().Bind(rootCmd, nil, "checker: Project ids the backend may belong to")
	NewFlag(config.KeyCheckerConnectivityURL, "connectivityUrl").String().Bind(rootCmd, d.Checker.ConnectivityURL, "checker: The url probed for network reachability")
	NewFlag(config.KeyCheckerTimeout, "timeout").Duration().Bind(rootCmd, d.Checker.Timeout, "checker: The timeout of a single probe, 0 leaves it to the backend clients")
	NewFlag(config.KeyCheckerRetryCount, "retryCount").Int().Bind(rootCmd, d.Checker.Retry.Count, "checker: Amount of retries of the connectivity probe")
	NewFlag(config.KeyCheckerRetryDelay, "retryDelay").Duration().Bind(rootCmd, d.Checker.Retry.Delay, "checker: The initial delay between connectivity retries")

	NewFlag(config.KeyLoggingSuppress, "suppress").StringSlice().Bind(rootCmd, nil, "logging: Log records containing one of these substrings are dropped")

	return rootCmd
}

// initConfig reads the config file and the environment
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".readygate")
	}

	if err := config.BindEnv(viper.GetViper()); err != nil {
		return err
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdRun())
	cmd.AddCommand(NewCmdCheck())
	cmd.AddCommand(NewCmdHealthz())
	cmd.AddCommand(NewCmdGenDocs(cmd))

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
