package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NethermindEth/prompt-mint/pkg/agent"
	"github.com/NethermindEth/prompt-mint/pkg/agent/setup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the creation api",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupResult, err := setup.Setup(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup: %w", err)
	}

	agentConfig, err := agent.NewAgentConfigFromSetupResult(ctx, setupResult)
	if err != nil {
		return fmt.Errorf("failed to create agent config: %w", err)
	}

	a, err := agent.NewAgent(ctx, agentConfig)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	defer a.Close()

	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("shutting down")
		return nil
	}
	return err
}
