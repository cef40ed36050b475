package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		log := logger.Get()
		log.Info("Starting HTTP API server...", zap.String("env", cfg.Env))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := container.Server().Run(ctx); err != nil {
			log.Error("Server exited with error", zap.Error(err))
			return err
		}

		log.Info("Server exited")
		return nil
	},
}
