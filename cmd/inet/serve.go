package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aretw0/inet/internal/presentation/tui"
	httpAdapter "github.com/aretw0/inet/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the engine as an HTTP service. Nets are kept in the configured store
and can be loaded, reduced, inspected and rendered over a JSON API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Kind, _ = cmd.Flags().GetString("store")
		}
		watch, _ := cmd.Flags().GetBool("watch")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		a, err := newApp(os.Stderr, reg)
		if err != nil {
			return err
		}
		defer a.Close()

		handler := httpAdapter.NewHandler(a.engine,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			go reloadLibrary(ctx, a)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(os.Stderr)
			a.logger.Info("Starting inet server", "addr", srv.Addr, "store", cfg.Store.Kind, "library", cfg.Library)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			a.logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			a.logger.Info("inet server stopped gracefully")
		}
		return nil
	},
}

// reloadLibrary loads a library net again whenever its source changes.
// Only nets already held by the store are refreshed.
func reloadLibrary(ctx context.Context, a *app) {
	changes, err := a.engine.Watch(ctx)
	if err != nil {
		a.logger.Warn("Library watch disabled", "err", err)
		return
	}
	for name := range changes {
		if _, err := a.engine.Snapshot(ctx, name); err != nil {
			continue
		}
		if _, err := a.engine.LoadNamed(ctx, name); err != nil {
			a.logger.Error("Reload failed", "net", name, "err", err)
			continue
		}
		a.logger.Info("Net reloaded", "net", name)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("store", "", "Net store: memory, file, redis, bolt or badger")
	serveCmd.Flags().Bool("watch", false, "Reload library nets when their files change")
}
