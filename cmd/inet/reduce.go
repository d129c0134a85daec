package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/internal/cli"
	"github.com/spf13/cobra"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce <file|name>",
	Short: "Reduce a net and report the result",
	Long: `Loads a net from a definition file, or by name from the library, and reduces it.
By default the net is normalised; --passes stops after that many sweeps.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passes, _ := cmd.Flags().GetInt("passes")
		format, _ := cmd.Flags().GetString("format")
		watch, _ := cmd.Flags().GetBool("watch")
		if normalize, _ := cmd.Flags().GetBool("normalize"); normalize {
			if cmd.Flags().Changed("passes") {
				return fmt.Errorf("--normalize and --passes cannot be used together")
			}
			passes = 0
		}

		a, err := newApp(os.Stderr, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		opts := cli.ReduceOptions{Source: args[0], Passes: passes, Format: format}
		if watch {
			return cli.RunWatch(ctx, a.engine, opts, cmd.OutOrStdout(), a.logger)
		}
		err = cli.Reduce(ctx, a.engine, opts, cmd.OutOrStdout())
		if cli.IsInterrupted(err) {
			a.logger.Info("Reduction interrupted", "signal", ctx.Signal())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(reduceCmd)
	reduceCmd.Flags().IntP("passes", "n", 0, "Stop after this many passes (0 normalises)")
	reduceCmd.Flags().Bool("normalize", false, "Reduce to normal form (the default without --passes)")
	reduceCmd.Flags().StringP("format", "f", inet.FormatText, "Output format: text, json or mermaid")
	reduceCmd.Flags().BoolP("watch", "w", false, "Reduce again whenever the library entry changes")
}
