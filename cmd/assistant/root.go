package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hanneskern95-jpg/AI-assistant/internal/dependency"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/config"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Tool-calling conversational assistant",
	Long: "A conversational assistant with a dispatchable tool set: playlists, recipes, " +
		"fact checking, and a specialized mail mode it can hand the conversation to.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}

// bootstrap loads configuration, initializes logging, and wires the
// container. Shared by every command that runs the assistant.
func bootstrap() (*dependency.Container, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("wire services: %w", err)
	}
	return container, cfg, nil
}
