package main

import (
	"fmt"
	"os"

	"github.com/aretw0/inet/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file|name>",
	Short: "Export the net as a Mermaid diagram",
	Long:  `Loads a net and prints a Mermaid flowchart of the agents reachable from its root, with redexes highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(os.Stderr, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		id, err := cli.LoadSource(ctx, a.engine, args[0])
		if err != nil {
			return err
		}
		out, err := a.engine.Render(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
