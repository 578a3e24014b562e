package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP proxy",
	Long:  `Start an HTTP server that accepts resume form inputs and returns a resume document as JSON.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8787)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = strconv.Itoa(servePort)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	srv, err := server.New(context.Background(), cfg, server.Deps{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
