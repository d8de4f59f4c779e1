package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/streamfr/internal/utils"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP availability service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(parent context.Context, cmdCtx *commandContext) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger := cmdCtx.logger
	logger.Info().Str("version", version).Msg("Starting streamfr")

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	tp := utils.NewTracerProvider("streamfr", version)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Failed to shut down tracer provider")
		}
	}()

	app, cleanup, err := initializeApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	if !app.Streaming.Enabled() {
		logger.Warn().Msg("RAPIDAPI_KEY not set, streaming availability source disabled")
	}

	if err := app.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer app.Scheduler.Stop()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := app.Server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info().Str("port", cfg.ServerPort).Msg("streamfr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		if err := app.Server.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Error during server shutdown")
		}
	case <-parent.Done():
		if err := app.Server.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Error during server shutdown")
		}
	}

	logger.Info().Msg("streamfr stopped")
	return nil
}
