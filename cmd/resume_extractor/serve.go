package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kairoscv/resume-extractor/internal/config"
	"github.com/kairoscv/resume-extractor/internal/logging"
	"github.com/kairoscv/resume-extractor/internal/server"
)

var (
	serveShared sharedFlags
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP server",
	Long: `Start an HTTP server exposing POST /extract, POST /extract/stream (SSE),
POST /extract/batch and the /snapshots/{id} endpoints.

Rate limits are read from the RATE_LIMIT_* environment variables.`,
	RunE: runServe,
}

func init() {
	serveShared.register(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, &serveShared, func(c *config.Config) {
		if cmd.Flags().Changed("port") {
			c.Addr = fmt.Sprintf(":%d", servePort)
		}
	})
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Verbose, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, log, serveShared.noAI)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(server.Config{
		Addr:         cfg.Addr,
		Orchestrator: a.orchestrator(),
		Store:        a.store,
		Runs:         a.history(),
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
