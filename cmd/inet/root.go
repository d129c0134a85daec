package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/internal/cli"
	"github.com/aretw0/inet/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// cfg is resolved once per invocation by the root command.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "inet",
	Short: "inet reduces interaction nets of constructors, duplicators and erasers",
	Long: `inet loads interaction nets from YAML or JSON definitions (or a Markdown library),
rewrites their active pairs and reports the normal form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("dir") {
			loaded.Library, _ = cmd.Flags().GetString("dir")
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("dir", "", "Directory of the net library")
}

// app is what a command needs to drive the engine.
type app struct {
	engine  *inet.Engine
	logger  *slog.Logger
	backend *cli.Backend
}

func (a *app) Close() error {
	return a.backend.Close()
}

// newApp opens the configured store and builds the engine. Logs go to
// logOut so they never mix with command output on stdout.
func newApp(logOut io.Writer, reg prometheus.Registerer) (*app, error) {
	logger, err := cli.NewLogger(cfg, logOut)
	if err != nil {
		return nil, err
	}
	backend, err := cli.OpenStore(cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Kind, err)
	}
	engine, err := cli.NewEngine(cli.EngineDeps{
		Config:   cfg,
		Logger:   logger,
		Backend:  backend,
		Registry: reg,
	})
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &app{engine: engine, logger: logger, backend: backend}, nil
}
