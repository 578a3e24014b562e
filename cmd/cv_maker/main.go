// Package main provides the entry point for the cv-maker proxy server and CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/config"
	"github.com/jonathan/cv-maker/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cv_maker",
	Short: "Resume builder inference proxy",
	Long: `cv_maker turns resume form inputs into a structured resume document through a hosted language model,
coerces whatever the model returns into JSON and falls back to a deterministic document when it cannot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (environment variables override its values)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings resolves the effective config and installs the logger.
// Logs go to stderr so stdout stays reserved for command output.
func loadSettings() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.Setup(os.Stderr, logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel))
	return cfg, logger, nil
}
