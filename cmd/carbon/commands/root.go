package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/carbon-portfolio/pkg/config"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carbon",
	Short: "Carbon credit portfolio tracker",
	Long: `Carbon Portfolio CLI

Tracks carbon-credit positions and reports total tonnes, total value
and the weighted-average price per tonne, optionally filtered by status.

Usage:
  go run ./cmd/carbon [command]

Examples:
  go run ./cmd/carbon api
  go run ./cmd/carbon view --status retired
  go run ./cmd/carbon summary --file positions.json --status available
  go run ./cmd/carbon scheduler run summary_snapshot
  go run ./cmd/carbon test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads the environment config and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
