// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-companion/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API for the editor",
	Long: `Serve starts the HTTP API used by the editor front end:

  POST /score         score a paragraph: {"paragraph": "...", "problem": "..."}
  GET  /test-papers   reference papers for ?problem=
  GET  /papers        alias of /test-papers
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

The reference cache and submission history live for the life of the process
unless a SQLite file is configured with --store sqlite --dsn.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(a.service, a.metrics, a.cfg.Server, a.logger).Run(ctx)
}

func init() {
	serveCmd.Flags().String("addr", server.DefaultAddr, "listen address")
	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
