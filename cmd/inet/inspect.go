package main

import (
	"os"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|name>",
	Short: "Show the agents of a net and where their ports point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, _ := cmd.Flags().GetString("agent")
		format, _ := cmd.Flags().GetString("format")

		a, err := newApp(os.Stderr, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return cli.Inspect(cmd.Context(), a.engine, cli.InspectOptions{
			Source: args[0],
			Agent:  agent,
			Format: format,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("agent", "a", "", "Agent name or index (default: every agent)")
	inspectCmd.Flags().StringP("format", "f", inet.FormatText, "Output format: text or json")
}
