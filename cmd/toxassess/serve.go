// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/toxassess/internal/assessment"
	"github.com/pdiddy/toxassess/internal/pubmed"
	"github.com/pdiddy/toxassess/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the toxicity assessment HTTP service",
	Long: `Serve starts the HTTP service: paper ingestion from PubMed,
corpus statistics, and substance toxicity assessment backed by the
stored literature. The service shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	server.Version = version

	cfg := serviceConfig()
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	fetcher := pubmed.NewClient(cfg.PubMed)
	orchestrator := assessment.NewOrchestrator(st, newGenerator(cfg.Generator))

	srv := server.New(cfg.Server, fetcher, st, orchestrator)
	return srv.Run(ctx)
}
