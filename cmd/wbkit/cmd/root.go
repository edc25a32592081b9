// Package cmd implements the wbkit commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/entitykit/wikibase"
	"github.com/entitykit/wikibase/pkg/config"
	"github.com/entitykit/wikibase/pkg/logging"
)

var (
	settingsFile string
	verbose      bool
	quiet        bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wbkit",
	Short: "Wikibase entity toolkit",
	Long: `Wbkit reads and edits entities on a Wikibase instance such as Wikidata.

Edits are planned locally against the entity's current state, so no-op
changes never reach the API; the payload sent carries only what actually
changed. Credentials come from the environment (WIKIBASE_TOKEN by
default), never from files.`,
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&settingsFile, "config", "", "settings file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
	cobra.CheckErr(viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")))
	cobra.CheckErr(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
}

// initConfig loads .env files and environment variables before any command
// runs.
func initConfig() {
	// .env.local overrides .env
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(envFile)
	}

	viper.SetEnvPrefix("WBKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configureLogging()
}

// configureLogging sets the log level from flags and environment.
func configureLogging() {
	level := "info"
	if viper.GetBool("verbose") {
		level = "debug"
	}
	if viper.GetBool("quiet") {
		level = "warn"
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	logging.Configure(level, os.Getenv("LOG_FORMAT"))
}

// loadSettings reads the settings file named by --config, or defaults with
// environment overrides when the flag is unset.
func loadSettings() (*config.Settings, error) {
	return config.LoadSettings(viper.GetString("config"))
}

// newClient builds an API client from the effective settings.
func newClient() (*wikibase.Client, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return wikibase.New(settings.ClientOptions()...)
}
