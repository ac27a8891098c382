package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	apiURL    string
	colorMode string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factdash",
	Short: "factdash - dashboard client for the fact-checking backend",
	Long: `factdash is a read-only client for the "Don't Look Up" fact-checking API.

It serves the investigation, article and analytics dashboard as server-rendered
pages, prints the same views in the terminal, and exports static snapshots.

factdash never computes verdicts itself: claims, evidence and verdicts come
finished from the backend.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of factdash.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "factdash v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend API base URL (default: http://localhost:8000/api/v1)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, never")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("output.color", rootCmd.PersistentFlags().Lookup("color"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		} else {
			// Search for config in home directory
			viper.AddConfigPath(filepath.Join(home, ".factdash"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv()

	if err := registerDefaults(); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering config defaults: %v\n", err)
	}

	// If a config file is found, read it in
	err := viper.ReadInConfig()
	setupLogger(viper.GetBool("output.verbose"))
	if err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// bindEnv reads in environment variables that match FACTDASH_*
func bindEnv() {
	viper.SetEnvPrefix("FACTDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("api.base_url", "FACTDASH_API_URL", "FACTDASH_API_BASE_URL")
	_ = viper.BindEnv("api.http_proxy")
	_ = viper.BindEnv("api.https_proxy")
	_ = viper.BindEnv("api.no_proxy")
}

// setupLogger installs the process-wide structured logger on stderr
func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
