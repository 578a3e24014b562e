package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/llm"
	"github.com/jonathan/cv-maker/internal/prompts"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Make one trivial round-trip to the configured model",
	Long:  `Reports whether credentials are present and whether the backend answers, without printing any secret.`,
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	llmConfig := cfg.LLMConfig()
	client, err := llm.NewClient(ctx, llmConfig)
	if err != nil {
		logger.Warn("inference client unavailable", "provider", llmConfig.Provider, "error", err)
		client = nil
	} else {
		defer func() { _ = client.Close() }()
	}

	report := llm.Probe(ctx, client, llmConfig, prompts.ProbePrompt())
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal probe report: %w", err)
	}
	if err := writeOutput("", append(data, '\n'), cmd.OutOrStdout()); err != nil {
		return err
	}
	if !report.OK {
		return fmt.Errorf("probe failed")
	}
	return nil
}
