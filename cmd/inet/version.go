package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/inet"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of inet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inet version %s\n", strings.TrimSpace(inet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
