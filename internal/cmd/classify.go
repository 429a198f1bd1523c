package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workhub-ai/workhub-agent/internal/agent"
	"github.com/workhub-ai/workhub-agent/internal/config"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [message]",
	Short: "Classify one message locally (rules only, no model call)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		a := agent.New(agent.Config{Policy: cfg.Policy})
		outcome, err := a.Process(cmd.Context(), strings.Join(args, " "), "operator")
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
