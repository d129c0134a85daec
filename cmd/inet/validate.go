package main

import (
	"github.com/aretw0/inet/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a net definition for consistency",
	Long:  `Checks agent kinds, port names and wiring, and warns about agents the root cannot reach.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
