package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/NethermindEth/prompt-mint/pkg/agent"
	"github.com/NethermindEth/prompt-mint/pkg/agent/pipeline"
	"github.com/NethermindEth/prompt-mint/pkg/agent/setup"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Run a single creation and print its final state",
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().String("name", "", "name of the NFT")
	createCmd.Flags().String("description", "", "description of the NFT, used as the image prompt")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("description")

	rootCmd.AddCommand(createCmd)
}

var stageSteps = map[pipeline.Stage]int{
	pipeline.StageValidating:        0,
	pipeline.StageGeneratingImage:   1,
	pipeline.StageUploadingImage:    2,
	pipeline.StageUploadingMetadata: 3,
	pipeline.StageMinting:           4,
	pipeline.StageSucceeded:         5,
}

func newStageProgress() pipeline.Observer {
	bar := progressbar.NewOptions(len(stageSteps)-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(pipeline.StageValidating.Label()),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return func(s pipeline.Snapshot) {
		bar.Describe(s.Label)
		if step, ok := stageSteps[s.Stage]; ok {
			bar.Set(step)
		}
		if s.Stage.Terminal() {
			bar.Finish()
		}
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	setupResult, err := setup.Setup(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup: %w", err)
	}

	agentConfig, err := agent.NewAgentConfigFromSetupResult(ctx, setupResult)
	if err != nil {
		return fmt.Errorf("failed to create agent config: %w", err)
	}

	agentConfig.Observers = append(agentConfig.Observers, newStageProgress())
	agentConfig.ApiIpPort = ""

	a, err := agent.NewAgent(ctx, agentConfig)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	defer a.Close()

	if _, err := a.Submit(pipeline.CreationRequest{Name: name, Description: description}); err != nil {
		return err
	}
	a.Wait()

	snapshot := a.Current()

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if snapshot.Stage == pipeline.StageFailed {
		return fmt.Errorf("creation failed: %s", snapshot.Error)
	}
	return nil
}
