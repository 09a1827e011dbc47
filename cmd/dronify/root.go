package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mlnomadpy/dronify/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "dronify",
	Short: "Dronify - natural-language drone command service",
	Long: `Dronify interprets natural-language commands into drone actions and
executes them against a simulator or an AirSim bridge. Text commands are
resolved by keyword and zero-shot matching; commands with a camera image
are planned by a vision-language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: ~/.dronify/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the --config value or the default location.
func resolveConfigPath() string {
	if configFile != "" {
		return configFile
	}
	if env := os.Getenv("DRONIFY_CONFIG"); env != "" {
		return env
	}
	return config.DefaultConfigPath(config.DefaultHomeDir())
}

// loadAppConfig loads the configuration, falling back to defaults when the
// file does not exist.
func loadAppConfig() (*config.Config, error) {
	loader := config.NewConfigLoader(config.NewValidator())
	return loader.LoadWithDefaults(resolveConfigPath())
}
