package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"portfolio-cms/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the public API and admin area and shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := app.InitializeService(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- svc.Start(ctx)
		}()

		select {
		case err = <-serveErr:
			log.Error().Err(err).Msg("server stopped unexpectedly")
		case <-ctx.Done():
			log.Info().Msg("shutting down server")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if shutdownErr := svc.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
		}
		if err != nil {
			return err
		}

		log.Info().Msg("server exited gracefully")
		return nil
	},
}
