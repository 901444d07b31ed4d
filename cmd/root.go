// Package cmd wires the higenie command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/higenie/higenie/config"
	"github.com/higenie/higenie/logger"
)

var rootCmd = &cobra.Command{
	Use:   "higenie",
	Short: "Greet someone through the command bridge",
	Long: `higenie shows a small form that asks for a name, sends it to the
"greet" command over the command bridge and displays the greeting.

Running higenie without a subcommand opens the form (same as "higenie ui").`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runUI,
}

var (
	configDirFlag string

	// cfg is loaded once in setup for the running subcommand.
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.higenie or $"+config.ConfigDirEnv+")")
	addBridgeFlags(rootCmd)
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	if configDirFlag != "" {
		config.SetConfigDir(configDirFlag)
	}
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}
