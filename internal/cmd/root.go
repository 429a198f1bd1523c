// Package cmd implements the workhub-agent CLI.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "workhub-agent",
	Short: "Message understanding and action routing for field workers",
	Long: `workhub-agent classifies free-text field worker messages, routes them
to database actions, and generates worker-facing replies.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (TOML)")
}
